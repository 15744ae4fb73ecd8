package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gestaozabele/midia/internal/auth"
)

func main() {
	if err := newRootCmd(os.Getenv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	var (
		subject string
		tenants []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "admintoken",
		Short: "Emite um JWT de administrador de mídia",
		Long: `Emite um JWT assinado com JWT_SECRET para a API administrativa.

Exemplos:
  admintoken --tenant 5f0c...  --ttl 1h
  admintoken --tenant '*'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			secret := strings.TrimSpace(getenv("JWT_SECRET"))
			if len(secret) < 32 {
				return fmt.Errorf("JWT_SECRET deve ter pelo menos 32 caracteres")
			}
			if len(tenants) == 0 {
				return fmt.Errorf("informe ao menos um --tenant")
			}

			token, _, err := auth.NewJWTManager(secret, ttl).GenerateAccessToken(subject, []string{auth.RoleMediaAdmin}, tenants)
			if err != nil {
				return err
			}
			return printToken(cmd.OutOrStdout(), token)
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "cli", "Subject gravado no token")
	cmd.Flags().StringSliceVar(&tenants, "tenant", nil, "UUID do tenant ou * (repetível)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Validade do token")
	return cmd
}

func printToken(w io.Writer, token string) error {
	_, err := fmt.Fprintln(w, token)
	return err
}
