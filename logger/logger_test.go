// This file is part of thumbiss.
//
// thumbiss is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// thumbiss is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with thumbiss.  If not, see <https://www.gnu.org/licenses/>.

package logger_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jetsetilly/thumbiss/logger"
)

func TestLoggerBasics(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	if w.String() != "" {
		t.Fatalf("expected empty log, got %q", w.String())
	}

	log.Log(logger.Allow, "test", "this is a test")
	w.Reset()
	log.Write(w)
	if w.String() != "test: this is a test\n" {
		t.Fatalf("unexpected log contents: %q", w.String())
	}

	log.Log(logger.Allow, "test2", "this is another test")
	w.Reset()
	log.Write(w)
	want := "test: this is a test\ntest2: this is another test\n"
	if w.String() != want {
		t.Fatalf("got %q, want %q", w.String(), want)
	}
}

func TestLoggerTail(t *testing.T) {
	log := logger.NewLogger(100)
	log.Log(logger.Allow, "a", "1")
	log.Log(logger.Allow, "b", "2")
	log.Log(logger.Allow, "c", "3")

	w := &strings.Builder{}
	log.Tail(w, 100)
	if w.String() != "a: 1\nb: 2\nc: 3\n" {
		t.Fatalf("tail(100) = %q", w.String())
	}

	w.Reset()
	log.Tail(w, 1)
	if w.String() != "c: 3\n" {
		t.Fatalf("tail(1) = %q", w.String())
	}

	w.Reset()
	log.Tail(w, 0)
	if w.String() != "" {
		t.Fatalf("tail(0) = %q", w.String())
	}
}

type prohibitLogging struct{ allowed bool }

func (p prohibitLogging) AllowLogging() bool { return p.allowed }

func TestLoggerPermission(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(prohibitLogging{allowed: false}, "tag", "detail")
	log.Write(w)
	if w.String() != "" {
		t.Fatalf("expected suppressed entry, got %q", w.String())
	}

	log.Log(prohibitLogging{allowed: true}, "tag", "detail")
	w.Reset()
	log.Write(w)
	if w.String() != "tag: detail\n" {
		t.Fatalf("expected permitted entry, got %q", w.String())
	}
}

func TestLoggerRenderDetail(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "tag", errors.New("boom"))
	log.Write(w)
	if w.String() != "tag: boom\n" {
		t.Fatalf("error rendering: %q", w.String())
	}
}

func TestLoggerBound(t *testing.T) {
	log := logger.NewLogger(2)
	log.Log(logger.Allow, "a", "1")
	log.Log(logger.Allow, "b", "2")
	log.Log(logger.Allow, "c", "3")

	w := &strings.Builder{}
	log.Write(w)
	if w.String() != "b: 2\nc: 3\n" {
		t.Fatalf("expected oldest entry evicted, got %q", w.String())
	}
}
