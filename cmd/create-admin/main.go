package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/appcollab/appcollab-backend/config"
	"github.com/appcollab/appcollab-backend/database"
	"github.com/appcollab/appcollab-backend/logging"
	"github.com/appcollab/appcollab-backend/models"
	"github.com/appcollab/appcollab-backend/services"
)

var input services.CreateUserInput

var rootCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a Supabase Auth user and its AppCollab profile",
	Long: `create-admin provisions a login through the Supabase Auth admin API and writes the matching
profile with the requested role. If the profile cannot be written the login is removed again.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		return run(ctx)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&input.Email, "email", "", "login email (required)")
	flags.StringVar(&input.Password, "password", "", "initial password, at least 8 characters (required)")
	flags.StringVar(&input.Username, "username", "", "profile username, defaults to the email local part")
	flags.StringVar(&input.FullName, "full-name", "", "profile display name")
	flags.StringVar((*string)(&input.Role), "role", string(models.RoleAdmin), "user or admin")
	_ = rootCmd.MarkFlagRequired("email")
	_ = rootCmd.MarkFlagRequired("password")
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	c, err := config.MergeSSM(ctx, config.New())
	if err != nil {
		return err
	}
	logging.Init(c)

	db, err := database.Open(c)
	if err != nil {
		return err
	}
	identities, err := services.NewSupabaseAdmin(c)
	if err != nil {
		return err
	}

	profile, err := services.NewAdminService(database.New(db), identities).CreateUser(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("Created %s %s (%s)\n", profile.Role, profile.Username, profile.ID)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
