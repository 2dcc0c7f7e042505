package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinica/prontuario-client/internal/model"
)

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			session, err := a.ctrl.Login(cmd.Context(), model.Credentials{
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Autenticado como %s\n", session.Name)
			if exp := session.TokenExpiry(); !exp.IsZero() {
				fmt.Printf("Sessão válida até %s\n", exp.Local().Format("02/01/2006 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func registerCmd() *cobra.Command {
	var profile model.Profile

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a clinician account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			session, err := a.ctrl.Register(cmd.Context(), profile)
			if err != nil {
				return err
			}
			fmt.Printf("Conta criada para %s\n", session.Name)
			return nil
		},
	}

	registerFlags(cmd, &profile)
	return cmd
}

func registerAssistenteCmd() *cobra.Command {
	var profile model.Profile

	cmd := &cobra.Command{
		Use:   "register-assistente",
		Short: "Create an assistant account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			session, err := a.ctrl.RegisterAssistente(cmd.Context(), profile)
			if err != nil {
				return err
			}
			fmt.Printf("Conta de assistente criada para %s\n", session.Name)
			return nil
		},
	}

	registerFlags(cmd, &profile)
	return cmd
}

func registerFlags(cmd *cobra.Command, profile *model.Profile) {
	cmd.Flags().StringVar(&profile.Name, "name", "", "display name")
	cmd.Flags().StringVar(&profile.Email, "email", "", "account email")
	cmd.Flags().StringVar(&profile.Password, "password", "", "account password")
	cmd.Flags().StringVar(&profile.ConfirmPassword, "confirm-password", "", "password confirmation")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	cmd.MarkFlagRequired("confirm-password")
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.ctrl.Logout(); err != nil {
				return err
			}
			fmt.Println("Sessão encerrada.")
			return nil
		},
	}
}
