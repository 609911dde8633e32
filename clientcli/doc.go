// Package clientcli provides a client library for stratum inspection servers.
//
// It reads the current configuration, looks up single keys, and triggers reloads. The
// package includes profile-based configuration for managing several servers.
//
// # Basic Usage
//
//	client, err := clientcli.New(&clientcli.Config{
//		Endpoint: "http://localhost:5710",
//		Token:    "your-token",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	snap, err := client.Show(ctx)
//
// # Profile Configuration
//
// Use profiles to manage multiple servers:
//
//	configFile, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("production")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := clientcli.New(clientcli.ConfigFromProfile(profile))
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatSnapshot(os.Stdout, snap)
package clientcli
