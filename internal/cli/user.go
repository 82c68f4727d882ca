package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/simstock-api/internal/application/auth"
	"github.com/jhoicas/simstock-api/internal/application/dto"
)

// NewUserCommand crea el grupo de comandos user.
func NewUserCommand(rootOpts *RootOptions, factory ServicesFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administrar operadores",
	}
	cmd.AddCommand(newUserCreateCommand(rootOpts, factory))
	return cmd
}

func newUserCreateCommand(rootOpts *RootOptions, factory ServicesFactory) *cobra.Command {
	var in auth.RegisterInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crear un operador",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return withServices(cmd, factory, func(svc *Services) error {
				user, err := svc.Auth.RegisterUser(cmd.Context(), in)
				if err != nil {
					return f.Fail(err)
				}
				return f.Success(user, renderUser(user))
			})
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "email del operador")
	cmd.Flags().StringVar(&in.Password, "password", "", "contraseña (mínimo 8 caracteres)")
	cmd.Flags().StringVar(&in.Name, "name", "", "nombre")
	cmd.Flags().StringVar(&in.Role, "role", "operator", "rol (admin|operator)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func renderUser(u *dto.UserResponse) func(io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintf(w, "operador creado: %s (%s) id=%s\n", u.Email, u.Role, u.ID)
	}
}
