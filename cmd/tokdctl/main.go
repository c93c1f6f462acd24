package main

import (
	"log"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tokendesk/tokendesk/cmd/tokendesk/config"
	"github.com/tokendesk/tokendesk/storage"
	"github.com/tokendesk/tokendesk/storage/model"
)

var rootCmd = &cobra.Command{
	Use:   "tokdctl",
	Short: "tokdctl can help you manage your tokendesk instance",
	Long:  "tokdctl can help you manage your tokendesk instance",
}

var configFile string
var warehouse *storage.Storage

func loadConfig() error {
	config.Load(configFile)
	log.Println("Loaded Config")
	c := config.Get()

	var err error
	warehouse, err = config.LoadStorage(c.Storage, c.Accounts.PasswordHashing, nil)
	if err != nil {
		log.Fatal(err)
	}
	return nil
}

var createAccountCmd = &cobra.Command{
	Use:   "create-account <username> <password> [role]",
	Short: "create a new account",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		role := model.RoleUser
		if len(args) > 2 {
			role = args[2]
		}
		if !model.ValidRole(role) {
			return errors.Errorf("invalid role '%s'", role)
		}
		a, err := warehouse.AccountsStorage().Create(args[0], args[1], role, "")
		if err != nil {
			return err
		}
		log.Printf("created account '%s' with role %s", a.Username, a.Role)
		return nil
	},
}

var setPasswordCmd = &cobra.Command{
	Use:   "set-password <username> <password>",
	Short: "set a new password for an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		if _, err := warehouse.AccountsStorage().Update(args[0], nil, nil, &args[1], nil); err != nil {
			return err
		}
		log.Printf("updated password for account '%s'", args[0])
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "create the configured seed accounts if they do not exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		return warehouse.SeedAccounts(config.Get().Accounts.Seed)
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "the config file to use")
	rootCmd.AddCommand(createAccountCmd)
	rootCmd.AddCommand(setPasswordCmd)
	rootCmd.AddCommand(seedCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
