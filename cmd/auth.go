package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/settlesavvy/settlemap-cli/internal/model"
	"github.com/settlesavvy/settlemap-cli/internal/session"
	"github.com/settlesavvy/settlemap-cli/pkg/settleapi"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and store the session token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		var err error
		if username == "" {
			if username, err = prompt("Username: "); err != nil {
				return err
			}
		}
		if password == "" {
			if password, err = prompt("Password: "); err != nil {
				return err
			}
		}

		e := initEnv()
		resp, err := e.api.Login(cmd.Context(), model.Credentials{
			Username: username,
			Password: password,
		})
		if err != nil {
			if msg := settleapi.Detail(err); msg != "" {
				return eris.New(msg)
			}
			return eris.Wrap(err, "login")
		}

		if err := e.sessions.Set(session.Session{Token: resp.Token, User: resp.User}); err != nil {
			return err
		}

		fmt.Printf("Logged in as %s.\n", resp.User.Username)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, _ []string) error {
		req := model.RegisterRequest{}
		req.Username, _ = cmd.Flags().GetString("username")
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")
		req.FirstName, _ = cmd.Flags().GetString("first-name")
		req.LastName, _ = cmd.Flags().GetString("last-name")
		req.Phone, _ = cmd.Flags().GetString("phone")
		req.IsRealtor, _ = cmd.Flags().GetBool("realtor")
		req.PreferredCity, _ = cmd.Flags().GetString("city")
		req.PreferredState, _ = cmd.Flags().GetString("state")

		if req.Username == "" || req.Email == "" || req.Password == "" {
			return eris.New("register: --username, --email, and --password are required")
		}

		e := initEnv()
		resp, err := e.api.Register(cmd.Context(), req)
		if err != nil {
			if msg := settleapi.Detail(err); msg != "" {
				return eris.New(msg)
			}
			return eris.Wrap(err, "register")
		}

		// Registration logs the new account in immediately.
		if err := e.sessions.Set(session.Session{Token: resp.Token, User: resp.User}); err != nil {
			return err
		}

		fmt.Printf("Account created. Logged in as %s.\n", resp.User.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	RunE: func(_ *cobra.Command, _ []string) error {
		e := initEnv()
		if err := e.sessions.Clear(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(_ *cobra.Command, _ []string) error {
		e := initEnv()
		sess, ok := e.sessions.Read()
		if !ok {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("%s <%s>\n", sess.User.Username, sess.User.Email)
		if sess.User.IsRealtor {
			fmt.Println("Realtor account")
		}
		return nil
	},
}

// prompt reads one line from stdin.
func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	r := bufio.NewReader(os.Stdin)
	line, err := r.ReadString('\n')
	if err != nil {
		return "", eris.Wrap(err, "read input")
	}
	return strings.TrimSpace(line), nil
}

func init() {
	loginCmd.Flags().String("username", "", "account username")
	loginCmd.Flags().String("password", "", "account password (prompted when omitted)")

	registerCmd.Flags().String("username", "", "account username")
	registerCmd.Flags().String("email", "", "account email")
	registerCmd.Flags().String("password", "", "account password")
	registerCmd.Flags().String("first-name", "", "first name")
	registerCmd.Flags().String("last-name", "", "last name")
	registerCmd.Flags().String("phone", "", "phone number")
	registerCmd.Flags().Bool("realtor", false, "register as a realtor account")
	registerCmd.Flags().String("city", "", "preferred city")
	registerCmd.Flags().String("state", "", "preferred state")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
