// Package source provides the concrete collectors used to feed a stratum resolution:
// pflag-backed command-line flags, viper-backed configuration files and .env file
// overlays for the environment.
//
//	fs := pflag.NewFlagSet("app", pflag.ExitOnError)
//	flags := source.RegisterFlags(fs, schema, "APP")
//	_ = fs.Parse(os.Args[1:])
//
//	env, _ := source.LoadDotEnv(nil, ".env")
//	res, err := stratum.Resolve(ctx, schema, stratum.Sources{
//	    Flags: flags,
//	    File:  source.File{Paths: []string{"config.toml"}, Optional: true},
//	    Env:   env,
//	}, stratum.WithEnvPrefix("APP"))
package source
