package main

import (
	"bufio"
	"fmt"
	"strings"

	"folio/folio/controllers"
	"folio/folio/sources/psql/dao"
	"folio/folio/utils/color"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts for the analytics reports",
}

var createUserCmd = &cobra.Command{
	Use:   "create-user <username>",
	Short: "Create an admin, or reset the password of an existing one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = strings.TrimSpace(line)
		}

		db, cfg, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		auth := controllers.NewAuthController(dao.NewUserDAO(db.DB), cfg.JWTSecret)
		if err := auth.CreateAdmin(cmd.Context(), args[0], password); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.ColorInfo("Admin "+args[0]+" saved."))
		if cfg.JWTSecret == "" {
			fmt.Fprintln(cmd.OutOrStdout(), color.ColorWarning("JWT_SECRET is not set; the server will refuse logins."))
		}
		return nil
	},
}

func init() {
	createUserCmd.Flags().String("password", "", "Password (prompted when omitted)")
	adminCmd.AddCommand(createUserCmd)
}
