// Command ravelin encrypts card details from the command line and
// optionally submits them to the Ravelin API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	ravelin "github.com/unravelin/ravelinjs-sub000"
	"github.com/unravelin/ravelinjs-sub000/internal/config"
)

// envPrefix is prepended to upper-cased flag names to find their
// environment variables.
const envPrefix = "RAVELIN_"

// Config holds the IO streams used by the CLI.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config using the process streams.
func DefaultConfig() *Config {
	return &Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// exitFunc is os.Exit, replaceable in tests.
var exitFunc = os.Exit

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	exitFunc(1)
}

// run executes the CLI with args, where args[0] is the program name.
func run(args []string, cfg *Config) error {
	if len(args) < 2 {
		return errors.New("usage: ravelin <encrypt|submit|key|version> [flags]")
	}
	root := newRootCmd(cfg, config.Load())
	root.SetArgs(args[1:])
	return root.ExecuteContext(context.Background())
}

// options are the flag values shared by the subcommands.
type options struct {
	publicKey    string
	apiKey       string
	baseURL      string
	timeout      time.Duration
	retries      int
	minPANDigits int
	logLevel     string

	cardFile   string
	pan        string
	month      string
	year       string
	nameOnCard string
	customerID string
	pretty     bool
}

func newRootCmd(cfg *Config, env *config.Config) *cobra.Command {
	opts := &options{
		publicKey:    env.PublicKey,
		apiKey:       env.APIKey,
		baseURL:      env.BaseURL,
		timeout:      env.Timeout,
		retries:      env.Retries,
		minPANDigits: env.MinPANDigits,
		logLevel:     env.LogLevel,
	}
	log := logrus.New()
	log.SetOutput(cfg.Stderr)

	root := &cobra.Command{
		Use:           "ravelin",
		Short:         "Encrypt payment cards for Ravelin",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setFlagsFromEnv(envPrefix, cmd.Flags())
			lvl, err := logrus.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(lvl)

			env.PublicKey = opts.publicKey
			env.APIKey = opts.apiKey
			env.BaseURL = opts.baseURL
			env.Timeout = opts.timeout
			env.Retries = opts.retries
			env.MinPANDigits = opts.minPANDigits
			env.LogLevel = opts.logLevel
			return env.Validate()
		},
	}
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", env.LogLevel, "Log level (trace, debug, info, warn, error).")

	encryptCmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a card and print the cipher payload",
		Long: `Encrypt a card and print the cipher payload as JSON.

The card is read from --card (a JSON file, or - for stdin) or built from
--pan, --month, --year and --name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := encryptCard(cfg, opts, log)
			if err != nil {
				return err
			}
			return writeJSON(cfg.Stdout, payload, opts.pretty)
		},
	}
	addKeyFlags(encryptCmd.Flags(), opts, env)
	addCardFlags(encryptCmd.Flags(), opts)

	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Encrypt a card and submit it to the Ravelin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := encryptCard(cfg, opts, log)
			if err != nil {
				return err
			}
			t, err := ravelin.NewTransport(opts.apiKey,
				ravelin.WithBaseURL(opts.baseURL),
				ravelin.WithTimeout(opts.timeout),
				ravelin.WithRetries(opts.retries),
				ravelin.WithCustomerID(opts.customerID),
				ravelin.WithTransportLogger(log),
			)
			if err != nil {
				return fmt.Errorf("create transport: %w", err)
			}
			receipt, err := t.Send(cmd.Context(), payload)
			if err != nil {
				return fmt.Errorf("submit: %w", err)
			}
			return writeJSON(cfg.Stdout, receiptOutput{
				PaymentMethodID: receipt.PaymentMethodID,
				Status:          receipt.Status,
				RequestID:       receipt.RequestID,
				IdempotencyKey:  receipt.IdempotencyKey,
			}, opts.pretty)
		},
	}
	addKeyFlags(submitCmd.Flags(), opts, env)
	addCardFlags(submitCmd.Flags(), opts)
	submitCmd.Flags().StringVar(&opts.apiKey, "api-key", env.APIKey, "Ravelin API key.")
	submitCmd.Flags().StringVar(&opts.baseURL, "base-url", env.BaseURL, "Ravelin API base URL.")
	submitCmd.Flags().DurationVar(&opts.timeout, "timeout", env.Timeout, "HTTP request timeout.")
	submitCmd.Flags().IntVar(&opts.retries, "retries", env.Retries, "Retries for failed submissions; 0 disables retrying.")
	submitCmd.Flags().StringVar(&opts.customerID, "customer-id", "", "Customer to attach the card to.")

	keyCmd := &cobra.Command{
		Use:   "key",
		Short: "Parse a public key and describe it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := ravelin.New(
				ravelin.WithPublicKey(opts.publicKey),
				ravelin.WithoutHostEntropy(),
				ravelin.WithLogger(log),
			)
			if err != nil {
				return err
			}
			defer enc.Close()
			info, ok := enc.Key()
			if !ok {
				return ravelin.ErrMissingKey
			}
			return writeJSON(cfg.Stdout, keyOutput{
				Index:     info.Index,
				Bits:      info.Bits,
				Signature: info.Signature,
			}, opts.pretty)
		},
	}
	addKeyFlags(keyCmd.Flags(), opts, env)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cfg.Stdout, "ravelin %s\n", ravelin.Version)
		},
	}

	root.AddCommand(encryptCmd, submitCmd, keyCmd, versionCmd)
	return root
}

func addKeyFlags(fs *pflag.FlagSet, opts *options, env *config.Config) {
	fs.StringVar(&opts.publicKey, "public-key", env.PublicKey, "RSA public key as index|exponent|modulus.")
	fs.IntVar(&opts.minPANDigits, "min-pan-digits", env.MinPANDigits, "Minimum number of digits in a card number.")
	fs.BoolVar(&opts.pretty, "pretty", false, "Indent JSON output.")
}

func addCardFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVar(&opts.cardFile, "card", "", "Card JSON file, or - for stdin.")
	fs.StringVar(&opts.pan, "pan", "", "Card number.")
	fs.StringVar(&opts.month, "month", "", "Expiry month.")
	fs.StringVar(&opts.year, "year", "", "Expiry year.")
	fs.StringVar(&opts.nameOnCard, "name", "", "Name on card.")
}

func encryptCard(cfg *Config, opts *options, log *logrus.Logger) (*ravelin.CipherPayload, error) {
	card, err := readCard(cfg, opts)
	if err != nil {
		return nil, err
	}

	enc, err := ravelin.New(
		ravelin.WithPublicKey(opts.publicKey),
		ravelin.WithMinPANDigits(opts.minPANDigits),
		ravelin.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("create encrypter: %w", err)
	}
	defer enc.Close()

	return enc.EncryptCard(card)
}

func readCard(cfg *Config, opts *options) (*ravelin.Card, error) {
	if opts.cardFile == "" {
		return &ravelin.Card{
			PAN:        opts.pan,
			Month:      opts.month,
			Year:       opts.year,
			NameOnCard: opts.nameOnCard,
		}, nil
	}

	var (
		data []byte
		err  error
	)
	if opts.cardFile == "-" {
		data, err = io.ReadAll(cfg.Stdin)
	} else {
		data, err = os.ReadFile(opts.cardFile)
	}
	if err != nil {
		return nil, fmt.Errorf("read card: %w", err)
	}
	return ravelin.ParseCard(data)
}

type keyOutput struct {
	Index     int    `json:"index"`
	Bits      int    `json:"bits"`
	Signature string `json:"signature"`
}

type receiptOutput struct {
	PaymentMethodID string `json:"paymentMethodId"`
	Status          string `json:"status,omitempty"`
	RequestID       string `json:"requestId,omitempty"`
	IdempotencyKey  string `json:"idempotencyKey"`
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// setFlagsFromEnv sets every flag not given on the command line from the
// environment variable prefix + upper-cased name, with dashes as
// underscores.
func setFlagsFromEnv(prefix string, fs *pflag.FlagSet) {
	set := map[string]bool{}
	fs.Visit(func(f *pflag.Flag) {
		set[f.Name] = true
	})
	fs.VisitAll(func(f *pflag.Flag) {
		if set[f.Name] {
			return
		}
		// tolerate a prefix given with or without its trailing underscore
		cleanPrefix := strings.TrimSuffix(prefix, "_")
		name := fmt.Sprintf("%s_%s", cleanPrefix, strings.ReplaceAll(strings.ToUpper(f.Name), "-", "_"))
		if e, ok := os.LookupEnv(name); ok {
			_ = f.Value.Set(e)
		}
	})
}
