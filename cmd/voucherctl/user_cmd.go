package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/vouchers-api/internal/application/auth"
	"github.com/jhoicas/vouchers-api/internal/application/dto"
	"github.com/jhoicas/vouchers-api/internal/domain/entity"
	"github.com/jhoicas/vouchers-api/internal/infrastructure/postgres"
)

func newUserCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administración de cuentas",
	}
	cmd.AddCommand(newUserCreateCmd(e))
	return cmd
}

// newUserCreateCmd da de alta cuentas con cualquier rol. Es la vía para crear el primer
// master, ya que el registro público solo crea comercios.
func newUserCreateCmd(e *env) *cobra.Command {
	var in dto.RegisterRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crea una cuenta (por defecto master raíz)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Role = strings.ToLower(strings.TrimSpace(in.Role))
			if !entity.ValidRole(in.Role) {
				return fmt.Errorf("rol desconocido %q", in.Role)
			}
			if in.Email == "" || in.Login == "" || len(in.Password) < 8 {
				return fmt.Errorf("--email, --login y --password (mínimo 8 caracteres) son obligatorios")
			}

			pool, err := e.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
				Secret:     e.cfg.JWT.Secret,
				ExpMinutes: e.cfg.JWT.Expiration,
				Issuer:     e.cfg.JWT.Issuer,
			}, e.log)
			// quien opera la CLI tiene acceso directo a la base: actúa como master
			out, err := uc.Register(cmd.Context(), in, entity.RoleMaster)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Email, "email", "", "Email de la cuenta")
	f.StringVar(&in.Login, "login", "", "Login de la cuenta")
	f.StringVar(&in.Password, "password", "", "Contraseña")
	f.StringVar(&in.DisplayName, "name", "", "Nombre visible")
	f.StringVar(&in.Role, "role", entity.RoleMaster, "master | distributor | merchant")
	f.StringVar(&in.InvitationCode, "invitation-code", "", "Código del upline (no válido para master)")
	return cmd
}
