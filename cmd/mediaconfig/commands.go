package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gestaozabele/midia/internal/configuration"
	"github.com/gestaozabele/midia/internal/media"
)

var errDSNMissing = errors.New("defina DB_DSN")

type configurationService interface {
	List(ctx context.Context, tenantID uuid.UUID) ([]media.ConfigurationEntry, error)
	Create(ctx context.Context, input configuration.CreateInput) (*media.ConfigurationEntry, error)
	SetEnabled(ctx context.Context, tenantID uuid.UUID, configurationUUID string, enabled bool) error
	Delete(ctx context.Context, tenantID uuid.UUID, configurationUUID string) error
}

type opener func(ctx context.Context) (configurationService, func(), error)

type app struct {
	open     opener
	service  configurationService
	closeFn  func()
	tenant   string
	tenantID uuid.UUID
}

func newRootCmd(open opener) *cobra.Command {
	a := &app{open: open}

	root := &cobra.Command{
		Use:           "mediaconfig",
		Short:         "Gerencia configurações de mídia adaptativa por tenant",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(a.tenant)
			if err != nil {
				return fmt.Errorf("--tenant inválido: %w", err)
			}
			a.tenantID = id

			svc, closeFn, err := a.open(cmd.Context())
			if err != nil {
				return fmt.Errorf("conectar: %w", err)
			}
			a.service = svc
			a.closeFn = closeFn
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.closeFn != nil {
				a.closeFn()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.tenant, "tenant", "", "UUID do tenant")
	_ = root.MarkPersistentFlagRequired("tenant")

	root.AddCommand(a.createCmd(), a.listCmd(), a.deleteCmd(), a.toggleCmd("enable", true), a.toggleCmd("disable", false))
	return root
}

func (a *app) createCmd() *cobra.Command {
	var (
		input    configuration.CreateInput
		disabled bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Cria uma configuração",
		Long: `Cria uma configuração de variante.

Exemplos:
  mediaconfig create --tenant <uuid> --name Miniatura --max-width 200 --max-height 500
  mediaconfig create --tenant <uuid> --uuid thumb --name Miniatura --max-width 200 --disabled`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input.TenantID = a.tenantID
			if disabled {
				enabled := false
				input.Enabled = &enabled
			}

			entry, err := a.service.Create(cmd.Context(), input)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entry)
		},
	}
	cmd.Flags().StringVar(&input.UUID, "uuid", "", "UUID da configuração (gerado se vazio)")
	cmd.Flags().StringVar(&input.Name, "name", "", "Nome da configuração")
	cmd.Flags().StringVar(&input.Description, "description", "", "Descrição")
	cmd.Flags().IntVar(&input.MaxWidth, "max-width", 0, "Largura máxima")
	cmd.Flags().IntVar(&input.MaxHeight, "max-height", 0, "Altura máxima")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Cria a configuração desabilitada")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "Lista as configurações do tenant",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.service.List(cmd.Context(), a.tenantID)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
			fmt.Fprintln(tw, "UUID\tNOME\tLARGURA\tALTURA\tHABILITADA")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", e.UUID, e.Name, e.Properties[media.PropertyMaxWidth], e.Properties[media.PropertyMaxHeight], e.Enabled)
			}
			return tw.Flush()
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <configuration-uuid>",
		Short: "Remove uma configuração",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.service.Delete(cmd.Context(), a.tenantID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuração %s removida\n", args[0])
			return nil
		},
	}
}

func (a *app) toggleCmd(use string, enabled bool) *cobra.Command {
	short := "Habilita uma configuração"
	if !enabled {
		short = "Desabilita uma configuração"
	}
	return &cobra.Command{
		Use:   use + " <configuration-uuid>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.service.SetEnabled(cmd.Context(), a.tenantID, args[0], enabled); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuração %s atualizada (habilitada=%t)\n", args[0], enabled)
			return nil
		},
	}
}
