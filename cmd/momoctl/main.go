// Command momoctl drives the wallet protocol by hand: generate a device,
// walk the OTP funnel, log in, then browse history or send money. Every
// option can also come from the environment or a .env file.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"momo-bridge/internal/adapter/momo"
	"momo-bridge/pkg/logger"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr

	opts struct {
		Release string        `long:"release" env:"MOMO_RELEASE" default:"3.1.17" description:"Wallet app release to impersonate"`
		BaseURL string        `long:"base-url" env:"MOMO_BASE_URL" description:"Serve every call from this origin instead of production"`
		Timeout time.Duration `long:"timeout" env:"MOMO_TIMEOUT" default:"30s" description:"Per-call timeout"`
		Verbose bool          `short:"v" long:"verbose" description:"Log wallet calls to stderr"`
	}
	parser *flags.Parser = flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)

	// newClient builds the wallet client from the global options.
	newClient = func() (*momo.Client, error) {
		profile, err := momo.LookupProfile(opts.Release)
		if err != nil {
			return nil, err
		}
		endpoints := momo.DefaultEndpoints()
		if opts.BaseURL != "" {
			endpoints = momo.EndpointsAt(opts.BaseURL)
		}
		level := "warn"
		if opts.Verbose {
			level = "debug"
		}
		log := logger.NewWithWriter(level, Stderr)
		return momo.NewClient(&http.Client{Timeout: opts.Timeout}, profile, endpoints, log), nil
	}
)

const (
	shortHelp = "Talk to the MoMo wallet from the command line"
	longHelp  = `
momoctl speaks the wallet app protocol. A typical first run is:

  momoctl device --phone 0912345678 >> .env
  momoctl otp-request
  momoctl otp-confirm --otp 1234
  momoctl login

after which history, detail, receiver and send work with the AUTH_TOKEN
and ENCRYPT_KEY printed by login.
`
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(Stdout, err)
			return
		}
		fmt.Fprintf(Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	envFile := os.Getenv("MOMOCTL_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := loadEnv(envFile); err != nil {
		return err
	}
	return parseArgs(args)
}

// loadEnv reads path into the environment without overriding variables
// that are already set. A missing file is fine.
func loadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func parseArgs(args []string) error {
	parser.ShortDescription = shortHelp
	parser.LongDescription = longHelp

	_, err := parser.ParseArgs(args)
	return err
}

// printJSON writes v to Stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(Stdout, string(data))
	return err
}
