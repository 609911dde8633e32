package stratum_test

import (
	"context"
	"fmt"

	"github.com/sagarc03/stratum"
)

func ExampleResolve() {
	schema := stratum.MustSchema(
		stratum.Scalar("host", stratum.String),
		stratum.Scalar("port", stratum.Uint16, stratum.Validated("min=1")),
		stratum.Scalar("debug", stratum.Bool, stratum.WithDefault("false")),
	)

	res, err := stratum.Resolve(context.Background(), schema, stratum.Sources{
		Flags: stratum.MapFlags{"port": "8080"},
		Env:   stratum.MapEnv{"APP_HOST": "localhost", "APP_PORT": "9090"},
	}, stratum.WithEnvPrefix("APP"))
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, v := range res.Values() {
		fmt.Printf("%s=%s (%s)\n", v.Key, v.Display(), v.Source)
	}
	// Output:
	// host=localhost (env)
	// port=8080 (flags)
	// debug=false (default)
}

func ExampleReport() {
	schema := stratum.MustSchema(
		stratum.Scalar("host", stratum.String),
		stratum.Scalar("port", stratum.Uint16),
		stratum.Scalar("debug", stratum.Bool, stratum.WithDefault("false")),
	)

	_, err := stratum.Resolve(context.Background(), schema, stratum.Sources{})
	fmt.Println(err)
	// Output:
	// Missing required configuration fields:
	//   - host
	//   - port
}

func ExampleSchemaFor() {
	type Pool struct {
		TimeoutMS int `stratum:"timeout_ms" default:"5000"`
	}
	type Database struct {
		URL  string
		Pool Pool `stratum:",flatten,prefix=database_pool"`
	}
	type Config struct {
		Database Database
	}

	schema, err := stratum.SchemaFor[Config]()
	if err != nil {
		fmt.Println(err)
		return
	}
	for leaf := range schema.All() {
		fmt.Println(leaf.Key, leaf.EnvName("APP"), "--"+leaf.FlagName())
	}
	// Output:
	// database.url APP_DATABASE_URL --database-url
	// database_pool_timeout_ms APP_DATABASE_POOL_TIMEOUT_MS --database-pool-timeout-ms
}
