package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"chessington/internal/storage"

	"github.com/google/uuid"
	"github.com/lixenwraith/auth"
	"golang.org/x/term"
)

const minPasswordLength = 8

// Run is the entry point for the db subcommands
func Run(args []string) error {
	return run(os.Stdout, args)
}

func run(w io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query, moves, user")
	}

	switch args[0] {
	case "init":
		return runInit(w, args[1:])
	case "delete":
		return runDelete(w, args[1:])
	case "query":
		return runQuery(w, args[1:])
	case "moves":
		return runMoves(w, args[1:])
	case "user":
		if len(args) < 2 {
			return fmt.Errorf("user subcommand required: add, delete, set-password, list")
		}
		return runUser(w, args[1], args[2:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// parsePath parses fs and requires its -path flag
func parsePath(fs *flag.FlagSet, path *string, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("database path required")
	}
	return nil
}

func openStore(path string) (*storage.Store, error) {
	store, err := storage.NewStore(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

// runInit creates the schema; existing tables are kept
func runInit(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	if err := parsePath(fs, path, args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	// Initialize schema
	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintf(w, "Database initialized at: %s\n", *path)
	return nil
}

// runDelete removes the database file
func runDelete(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	if err := parsePath(fs, path, args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}

	// DeleteDB closes the store itself
	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(w, "Database deleted: %s\n", *path)
	return nil
}

// runQuery lists stored games, newest first
func runQuery(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	gameID := fs.String("gameId", "", "Game ID to filter (optional, * for all)")
	ownerID := fs.String("ownerId", "", "Owner user ID to filter (optional, * for all)")
	if err := parsePath(fs, path, args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	// Query games, "" and "*" match all
	games, err := store.QueryGames(*gameID, *ownerID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(games) == 0 {
		fmt.Fprintln(w, "No games found")
		return nil
	}

	// Print results in tabular format
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Game ID\tOwner\tSize\tStart Time\tInitial Position")
	fmt.Fprintln(tw, strings.Repeat("-", 80))

	for _, g := range games {
		owner := "(anonymous)"
		if g.OwnerID != "" {
			owner = short(g.OwnerID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			g.GameID,
			owner,
			g.BoardSize,
			g.StartTimeUTC.Format("2006-01-02 15:04:05"),
			g.InitialPosition,
		)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nFound %d game(s)\n", len(games))
	return nil
}

// runMoves prints the recorded moves of one game
func runMoves(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("moves", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	gameID := fs.String("gameId", "", "Game ID (required)")
	if err := parsePath(fs, path, args); err != nil {
		return err
	}
	if *gameID == "" {
		return fmt.Errorf("game ID required")
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	// Moves come back in move order
	moves, err := store.QueryMoves(*gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(moves) == 0 {
		fmt.Fprintln(w, "No moves found")
		return nil
	}

	// Print results in tabular format
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSide\tMove\tPiece\tCaptured\tTime")
	for _, m := range moves {
		captured := "-"
		if m.Captured != "" {
			captured = m.Captured
		}
		fmt.Fprintf(tw, "%d\t%s\t%s%s\t%s\t%s\t%s\n",
			m.MoveNumber,
			m.PlayerColor,
			m.FromSquare, m.ToSquare,
			m.Piece,
			captured,
			m.MoveTimeUTC.Format("15:04:05"),
		)
	}
	tw.Flush()
	return nil
}

func runUser(w io.Writer, subcommand string, args []string) error {
	switch subcommand {
	case "add":
		return runUserAdd(w, args)
	case "delete":
		return runUserDelete(w, args)
	case "set-password":
		return runUserSetPassword(w, args)
	case "list":
		return runUserList(w, args)
	default:
		return fmt.Errorf("unknown user subcommand: %s", subcommand)
	}
}

// readPassword takes the -password value or prompts without echo
func readPassword(w io.Writer, password string, interactive bool) (string, error) {
	if interactive {
		if password != "" {
			return "", fmt.Errorf("cannot use -interactive with -password")
		}
		fmt.Fprint(w, "Enter password: ")
		pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		password = string(pwBytes)
	} else if password == "" {
		return "", fmt.Errorf("password required: use -password or -interactive")
	}

	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return password, nil
}

// runUserAdd creates an account from the command line
func runUserAdd(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("user add", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	username := fs.String("username", "", "Username (required)")
	email := fs.String("email", "", "Email address (optional)")
	password := fs.String("password", "", "Password (optional, will prompt with -interactive)")
	interactive := fs.Bool("interactive", false, "Interactive password prompt")
	if err := parsePath(fs, path, args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("username required")
	}

	// Get password
	pw, err := readPassword(w, *password, *interactive)
	if err != nil {
		return err
	}
	passwordHash, err := auth.HashPassword(pw)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	// Generate a user ID not already taken
	var userID string
	for attempts := 0; ; attempts++ {
		if attempts == 10 {
			return fmt.Errorf("failed to generate unique user ID after 10 attempts")
		}
		userID = uuid.New().String()
		if _, err := store.GetUserByID(userID); err != nil {
			break
		}
	}

	// Create user
	record := storage.UserRecord{
		UserID:       userID,
		Username:     strings.ToLower(*username),
		Email:        strings.ToLower(*email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(record); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(w, "User created successfully:\n")
	fmt.Fprintf(w, "  ID: %s\n", userID)
	fmt.Fprintf(w, "  Username: %s\n", record.Username)
	if record.Email != "" {
		fmt.Fprintf(w, "  Email: %s\n", record.Email)
	}
	return nil
}

func runUserDelete(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("user delete", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	username := fs.String("username", "", "Username to delete")
	userID := fs.String("id", "", "User ID to delete")
	if err := parsePath(fs, path, args); err != nil {
		return err
	}
	// Exactly one selector
	if (*username == "") == (*userID == "") {
		return fmt.Errorf("specify exactly one of -username or -id")
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	// Resolve username to ID if needed
	targetID := *userID
	if targetID == "" {
		user, err := store.GetUserByUsername(*username)
		if err != nil {
			return fmt.Errorf("user not found: %s", *username)
		}
		targetID = user.UserID
	}

	if err := store.DeleteUserByID(targetID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	fmt.Fprintf(w, "User deleted: %s\n", targetID)
	return nil
}

func runUserSetPassword(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("user set-password", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	username := fs.String("username", "", "Username (required)")
	password := fs.String("password", "", "New password")
	interactive := fs.Bool("interactive", false, "Interactive password prompt")
	if err := parsePath(fs, path, args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("username required")
	}

	pw, err := readPassword(w, *password, *interactive)
	if err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	// Get user
	user, err := store.GetUserByUsername(*username)
	if err != nil {
		return fmt.Errorf("user not found: %s", *username)
	}

	// Hash and store the new password
	passwordHash, err := auth.HashPassword(pw)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := store.UpdateUserPasswordSync(user.UserID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	fmt.Fprintf(w, "Password updated for user: %s\n", *username)
	return nil
}

func runUserList(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("user list", flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	if err := parsePath(fs, path, args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	// Get all users
	users, err := store.ListUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Fprintln(w, "No users found")
		return nil
	}

	// Print results in tabular format
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "User ID\tUsername\tEmail\tCreated\tLast Login")
	fmt.Fprintln(tw, strings.Repeat("-", 100))

	for _, u := range users {
		lastLogin := "never"
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.Format("2006-01-02 15:04")
		}
		email := u.Email
		if email == "" {
			email = "(none)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			short(u.UserID),
			u.Username,
			email,
			u.CreatedAt.Format("2006-01-02 15:04"),
			lastLogin,
		)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nTotal users: %d\n", len(users))
	return nil
}

// short truncates IDs for table output
func short(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}
