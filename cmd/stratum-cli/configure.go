package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/stratum/clientcli"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Manage server profiles",
	Long: `Manage server profiles in the configuration file.

A profile names an inspection server endpoint and its bearer token. Select one
with --profile or STRATUM_PROFILE; otherwise the default profile is used.

Profiles are stored in ~/.stratum/config.yaml`,
}

var configureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured profiles",
	Long: `List all profiles configured in the config file.

The default profile is marked with an asterisk (*).`,
	Args: cobra.NoArgs,
	RunE: runConfigureList,
}

var configureAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or update a profile",
	Long: `Add a profile interactively, or update it when it already exists.

You will be asked for the endpoint URL, the bearer token (leave it empty when
the server has none) and whether the profile becomes the default. The server's
/healthz endpoint is checked before saving.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigureAdd,
}

var configureRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigureRemove,
}

var configureSetDefaultCmd = &cobra.Command{
	Use:   "set-default <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigureSetDefault,
}

var configureShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show profile details",
	Long: `Show details for a profile, or for the default profile when no name is given.
Tokens are masked unless --show-secrets is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigureShow,
}

var showSecrets bool

func init() {
	configureCmd.AddCommand(configureListCmd)
	configureCmd.AddCommand(configureAddCmd)
	configureCmd.AddCommand(configureRemoveCmd)
	configureCmd.AddCommand(configureSetDefaultCmd)
	configureCmd.AddCommand(configureShowCmd)

	configureShowCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show tokens")
	configureListCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show tokens")
}

// loadProfiles reads the profiles file. A missing file is an empty one when
// allowMissing is set.
func loadProfiles(allowMissing bool) (*clientcli.ConfigFile, error) {
	file, err := clientcli.LoadConfigFile(getConfigPath())
	if err == nil {
		return file, nil
	}
	if allowMissing && errors.Is(err, fs.ErrNotExist) {
		return &clientcli.ConfigFile{}, nil
	}
	return nil, fmt.Errorf("load profiles: %w", err)
}

func saveProfiles(file *clientcli.ConfigFile) error {
	if err := file.Save(getConfigPath()); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}
	return nil
}

func runConfigureList(_ *cobra.Command, _ []string) error {
	file, err := loadProfiles(true)
	if err != nil {
		return err
	}

	if len(file.Profiles) == 0 {
		fmt.Println("No profiles configured.")
		fmt.Println("Run 'stratum-cli configure add <name>' to create one.")
		return nil
	}

	def, err := file.GetDefaultProfile()
	if err != nil {
		return err
	}
	return getFormatter().FormatProfileList(os.Stdout, file.Profiles, def.Name, showSecrets)
}

func runConfigureAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	file, err := loadProfiles(true)
	if err != nil {
		return err
	}

	_, lookupErr := file.GetProfile(name)
	exists := lookupErr == nil
	if exists && !confirm(fmt.Sprintf("Profile '%s' already exists. Update it", name)) {
		fmt.Println("Cancelled.")
		return nil
	}

	profile, err := promptProfile(name, len(file.Profiles) == 0 || (exists && len(file.Profiles) == 1))
	if err != nil {
		return handlePromptError(err)
	}

	fmt.Print("Checking server health... ")
	if healthErr := checkHealth(cmd.Context(), profile); healthErr != nil {
		fmt.Println("FAILED")
		fmt.Printf("Warning: %v\n", healthErr)
		if !confirm("Save profile anyway") {
			fmt.Println("Cancelled.")
			return nil
		}
	} else {
		fmt.Println("OK")
	}

	if exists {
		err = file.UpdateProfile(profile)
	} else {
		err = file.AddProfile(profile)
	}
	if err != nil {
		return err
	}
	if profile.Default {
		if err := file.SetDefault(name); err != nil {
			return err
		}
	}
	if err := saveProfiles(file); err != nil {
		return err
	}

	verb := "added"
	if exists {
		verb = "updated"
	}
	fmt.Printf("Profile '%s' %s.\n", name, verb)
	if profile.Default {
		fmt.Println("Set as default profile.")
	}
	return nil
}

// promptProfile asks for the connection settings of a profile. The only profile is
// always the default.
func promptProfile(name string, onlyProfile bool) (clientcli.Profile, error) {
	p := clientcli.Profile{Name: name, Default: onlyProfile}

	endpointPrompt := promptui.Prompt{
		Label:    "Endpoint URL",
		Default:  clientcli.DefaultEndpoint,
		Validate: validateEndpoint,
	}
	endpointURL, err := endpointPrompt.Run()
	if err != nil {
		return p, err
	}
	p.Endpoint = strings.TrimSuffix(endpointURL, "/")

	tokenPrompt := promptui.Prompt{Label: "Token", Mask: '*'}
	if p.Token, err = tokenPrompt.Run(); err != nil {
		return p, err
	}

	if !onlyProfile {
		p.Default = confirm("Set as default profile")
	}
	return p, nil
}

func validateEndpoint(input string) error {
	if input == "" {
		return errors.New("endpoint URL is required")
	}
	u, err := url.Parse(input)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	return nil
}

// confirm asks a yes/no question; anything but yes, including an interrupt, is no.
func confirm(label string) bool {
	prompt := promptui.Prompt{Label: label, IsConfirm: true}
	_, err := prompt.Run()
	return err == nil
}

func runConfigureRemove(_ *cobra.Command, args []string) error {
	name := args[0]

	file, err := loadProfiles(false)
	if err != nil {
		return err
	}
	if _, err := file.GetProfile(name); err != nil {
		return err
	}

	if !confirm(fmt.Sprintf("Remove profile '%s'", name)) {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := file.RemoveProfile(name); err != nil {
		return err
	}
	if err := saveProfiles(file); err != nil {
		return err
	}

	fmt.Printf("Profile '%s' removed.\n", name)
	return nil
}

func runConfigureSetDefault(_ *cobra.Command, args []string) error {
	file, err := loadProfiles(false)
	if err != nil {
		return err
	}
	if err := file.SetDefault(args[0]); err != nil {
		return err
	}
	if err := saveProfiles(file); err != nil {
		return err
	}

	fmt.Printf("Default profile set to '%s'.\n", args[0])
	return nil
}

func runConfigureShow(_ *cobra.Command, args []string) error {
	file, err := loadProfiles(false)
	if err != nil {
		return err
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	p, err := file.GetProfile(name)
	if err != nil {
		return err
	}
	def, err := file.GetDefaultProfile()
	if err != nil {
		return err
	}

	return getFormatter().FormatProfileShow(os.Stdout, *p, p.Name == def.Name, showSecrets)
}

// checkHealth asks the profile's server for /healthz.
func checkHealth(ctx context.Context, p clientcli.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := clientcli.New(clientcli.ConfigFromProfile(&p), clientcli.WithTimeout(5*time.Second))
	if err != nil {
		return err
	}
	return client.Health(ctx)
}

// handlePromptError treats an aborted prompt as a cancellation.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
