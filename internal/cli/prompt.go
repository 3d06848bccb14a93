package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/fitpay/fitpay-admin/internal/screen"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// stdinIsTerminal is replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func promptInput(cmd *cobra.Command, prompt string) string {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func promptPassword(cmd *cobra.Command, prompt string) string {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	if !stdinIsTerminal() {
		reader := bufio.NewReader(cmd.InOrStdin())
		input, _ := reader.ReadString('\n')
		return strings.TrimRight(input, "\r\n")
	}
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return ""
	}
	return string(password)
}

// errNotConfirmed is returned when the operator declines or cannot be asked.
var errNotConfirmed = fmt.Errorf("operação cancelada")

// confirm asks a yes/no question about target through a Confirmation. With
// yes set the question is skipped; without a terminal it is refused.
func confirm[T any](cmd *cobra.Command, c *screen.Confirmation[T], target T, question string, yes bool) error {
	if err := c.Open(target); err != nil {
		return err
	}
	if yes {
		_, err := c.Confirm()
		return err
	}
	if !stdinIsTerminal() {
		_ = c.Cancel()
		return fmt.Errorf("confirmation required: run in a terminal or pass --yes")
	}
	if askYes(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), question) {
		_, err := c.Confirm()
		return err
	}
	_ = c.Cancel()
	return errNotConfirmed
}

func askYes(in *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [s/N]: ", question)
	answer, _ := in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "sim", "y", "yes":
		return true
	default:
		return false
	}
}
