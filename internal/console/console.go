package console

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
)

// Console reads lines from an input stream and writes text to an output stream.
// Writes are serialized so server-pushed notifications and prompts never interleave
// mid-line. Reads are expected from a single goroutine at a time.
type Console struct {
	reader *bufio.Reader
	out    io.Writer
	mu     sync.Mutex
}

// New wraps the given input and output streams.
//
// Precondition: in and out must be non-nil.
// Postcondition: Returns a Console ready for reading and writing.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		reader: bufio.NewReaderSize(in, 4096),
		out:    out,
	}
}

// Std returns a Console bound to the process's stdin and stdout.
func Std() *Console {
	return New(os.Stdin, os.Stdout)
}

// ReadLine blocks until a full line of input is available. The returned line
// has its line terminator and control characters (except tab) removed.
//
// Postcondition: Returns the next line of text input, or an error (including io.EOF).
// A final unterminated line is returned together with io.EOF.
func (c *Console) ReadLine() (string, error) {
	var line bytes.Buffer
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return line.String(), err
		}
		if b == '\n' {
			break
		}
		if b == '\r' {
			next, err := c.reader.Peek(1)
			if err == nil && len(next) > 0 && next[0] == '\n' {
				_, _ = c.reader.ReadByte()
			}
			break
		}
		if b < 32 && b != '\t' {
			continue
		}
		line.WriteByte(b)
	}
	return line.String(), nil
}

// WriteLine writes text followed by a newline.
func (c *Console) WriteLine(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.out, text)
	return err
}

// WritePrompt writes text without a trailing newline.
func (c *Console) WritePrompt(prompt string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprint(c.out, prompt)
	return err
}

// Println writes a colored line. Write errors are ignored.
func (c *Console) Println(color, text string) {
	_ = c.WriteLine(Colorize(color, text))
}

// Printf writes a colored formatted line.
func (c *Console) Printf(color, format string, args ...any) {
	_ = c.WriteLine(Colorf(color, format, args...))
}

// Prompt writes a colored prompt without a trailing newline.
func (c *Console) Prompt(color, text string) {
	_ = c.WritePrompt(Colorize(color, text))
}
