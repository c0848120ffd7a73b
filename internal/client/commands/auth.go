package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"chessington/internal/client/display"
	"chessington/internal/client/session"

	"golang.org/x/term"
)

func (r *Registry) registerAuthCommands() {
	r.Register(&Command{
		Name:        "register",
		ShortName:   "r",
		Description: "Register a new user",
		Usage:       "register",
		Handler:     registerHandler,
	})

	r.Register(&Command{
		Name:        "login",
		ShortName:   "l",
		Description: "Login with credentials",
		Usage:       "login",
		Handler:     loginHandler,
	})

	r.Register(&Command{
		Name:        "logout",
		ShortName:   "o",
		Description: "Clear authentication",
		Usage:       "logout",
		Handler:     logoutHandler,
	})

	r.Register(&Command{
		Name:        "whoami",
		ShortName:   "i",
		Description: "Show current user",
		Usage:       "whoami",
		Handler:     whoamiHandler,
	})
}

func readLine(s *session.Session, prompt string) (string, error) {
	fmt.Fprint(s.Out, prompt)
	line, err := s.In.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo on a terminal, else falls back to a plain line
func readPassword(s *session.Session, prompt string) (string, error) {
	if !s.Terminal {
		return readLine(s, prompt)
	}

	fmt.Fprint(s.Out, prompt)
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(s.Out)
	if err != nil {
		return "", err
	}
	return string(bytePassword), nil
}

// registerHandler prompts for credentials and logs in as the new user
func registerHandler(s *session.Session, args []string) error {
	// Get username
	username, err := readLine(s, display.Yellow+"Username: "+display.Reset)
	if err != nil {
		return err
	}
	password, err := readPassword(s, display.Yellow+"Password: "+display.Reset)
	if err != nil {
		return err
	}
	// Email is optional
	email, err := readLine(s, display.Yellow+"Email (optional): "+display.Reset)
	if err != nil {
		return err
	}

	resp, err := s.Client.Register(username, password, email)
	if err != nil {
		return err
	}

	// Store token in session
	s.SetAuth(resp.Token, resp.UserID, resp.Username)
	fmt.Fprintf(s.Out, "%sRegistered successfully%s\n", display.Green, display.Reset)
	fmt.Fprintf(s.Out, "User ID: %s\n", resp.UserID)
	fmt.Fprintf(s.Out, "Username: %s\n", resp.Username)
	return nil
}

func loginHandler(s *session.Session, args []string) error {
	identifier, err := readLine(s, display.Yellow+"Username or Email: "+display.Reset)
	if err != nil {
		return err
	}
	password, err := readPassword(s, display.Yellow+"Password: "+display.Reset)
	if err != nil {
		return err
	}

	resp, err := s.Client.Login(identifier, password)
	if err != nil {
		return err
	}

	// Store token in session
	s.SetAuth(resp.Token, resp.UserID, resp.Username)
	fmt.Fprintf(s.Out, "%sLogged in successfully%s\n", display.Green, display.Reset)
	fmt.Fprintf(s.Out, "User ID: %s\n", resp.UserID)
	fmt.Fprintf(s.Out, "Token expires: %s\n", time.Unix(resp.ExpiresAt, 0).Format("2006-01-02 15:04:05"))
	return nil
}

// logoutHandler drops the token locally; tokens stay valid until expiry
func logoutHandler(s *session.Session, args []string) error {
	s.SetAuth("", "", "")
	fmt.Fprintf(s.Out, "%sLogged out%s\n", display.Green, display.Reset)
	return nil
}

func whoamiHandler(s *session.Session, args []string) error {
	if s.AuthToken == "" {
		fmt.Fprintf(s.Out, "%sNot authenticated%s\n", display.Yellow, display.Reset)
		return nil
	}

	// Ask the server so an expired token shows up as an error
	user, err := s.Client.GetCurrentUser()
	if err != nil {
		return err
	}

	fmt.Fprintf(s.Out, "%sCurrent User:%s\n", display.Cyan, display.Reset)
	fmt.Fprintf(s.Out, "  User ID:  %s\n", user.UserID)
	fmt.Fprintf(s.Out, "  Username: %s\n", user.Username)
	if user.Email != "" {
		fmt.Fprintf(s.Out, "  Email:    %s\n", user.Email)
	}
	fmt.Fprintf(s.Out, "  Created:  %s\n", time.Unix(user.CreatedAt, 0).Format("2006-01-02 15:04:05"))
	return nil
}
