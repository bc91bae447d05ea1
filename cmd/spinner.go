package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// spinner provides a simple text-based progress indicator.
type spinner struct {
	message string
	out     io.Writer
	stop    chan bool
	done    chan bool
	mu      sync.Mutex
	active  bool
}

func newSpinner(message string) (s *spinner) {
	s = &spinner{
		message: message,
		out:     os.Stdout,
		stop:    make(chan bool),
		done:    make(chan bool),
	}
	return s
}

func (s *spinner) start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		chars := []string{"|", "/", "-", "\\"}
		i := 0
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprintf(s.out, "%s ", s.message)
		for {
			select {
			case <-s.stop:
				fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+2))
				s.done <- true
				return
			case <-ticker.C:
				fmt.Fprintf(s.out, "\r%s %s", s.message, chars[i%len(chars)])
				i++
			}
		}
	}()
}

func (s *spinner) stopSpinner() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.stop <- true
	<-s.done

	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

// withProgress runs fn behind a spinner, or prints message once in verbose
// mode where log lines would garble the spinner.
func withProgress(message string, fn func() error) (err error) {
	if getVerbose() {
		fmt.Println(message)
		err = fn()
		return err
	}

	s := newSpinner(message)
	s.start()
	err = fn()
	s.stopSpinner()
	return err
}
