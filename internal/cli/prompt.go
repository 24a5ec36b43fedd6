package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var errNoTerminal = errors.New("--ask-token needs an interactive terminal")

func promptForToken(w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errNoTerminal
	}
	fmt.Fprint(w, "Admin token: ")
	tok, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(tok))
	if token == "" {
		return "", errors.New("empty token")
	}
	return token, nil
}
