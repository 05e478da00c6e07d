package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var errNoInput = errors.New("no input on stdin")

func promptPassword(label string) (string, error) {
	return readPassword(os.Stdin, os.Stderr, label)
}

func readPassword(in *os.File, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)

	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return readLine(in)
	}

	password, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}

	return string(password), nil
}

// readLine reads a single line one byte at a time so that nothing past the
// newline is consumed and a second prompt can read the next line.
func readLine(r io.Reader) (string, error) {
	var (
		line []byte
		b    [1]byte
	)

	for {
		n, err := r.Read(b[:])
		if n > 0 {
			if b[0] == '\n' {
				break
			}
			line = append(line, b[0])
		}
		if errors.Is(err, io.EOF) {
			if len(line) == 0 {
				return "", errNoInput
			}
			break
		}
		if err != nil {
			return "", err
		}
	}

	return strings.TrimSuffix(string(line), "\r"), nil
}
