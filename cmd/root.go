package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/michaellee1019/working-wheel/internal/authflow"
	"github.com/michaellee1019/working-wheel/internal/config"
	"github.com/michaellee1019/working-wheel/internal/credentials"
	"github.com/michaellee1019/working-wheel/internal/logger"
	"github.com/michaellee1019/working-wheel/internal/payload"
	"github.com/michaellee1019/working-wheel/internal/ui"
)

var (
	credentialsPath string
	cfgFile         string
	timeoutFlag     time.Duration
	portFlag        int
	noClipboard     bool
	verbose         bool

	cfg *config.Config

	// Version information
	version    string
	commitHash string
	buildTime  string
)

var rootCmd = &cobra.Command{
	Use:   "get-token",
	Short: "Generate a Google Calendar OAuth payload for the working-wheel module",
	Long: `Runs the Google OAuth 2.0 installed-application flow for read-only
calendar access and prints the resulting credentials as a do_command payload.

A browser window opens for consent; after you approve, the payload is printed
to the console and copied to the clipboard so you can paste it into the
DoCommand panel of the calendar service on your machine.

Client credentials are resolved in order: --credentials path (or the
WORKING_WHEEL_CREDENTIALS environment variable), credentials.json in the
current directory, then credentials bundled into the binary at release time.

Examples:
  get-token                                    # Use ./credentials.json or bundled
  get-token --credentials /path/to/creds.json  # Use a specific file
  get-token --timeout 2m --no-clipboard        # Tune the consent wait, skip copy`,
	RunE:         runToken,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, commit, buildTimeStr string) {
	version = v
	commitHash = commit
	buildTime = buildTimeStr

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commitHash, buildTime)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().StringVarP(&credentialsPath, "credentials", "c", "", "path to an OAuth client credentials JSON file")
	rootCmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "how long to wait for the browser consent callback (default from config)")
	rootCmd.Flags().IntVar(&portFlag, "port", -1, "fixed loopback port for the OAuth callback (0 = ephemeral)")
	rootCmd.Flags().BoolVar(&noClipboard, "no-clipboard", false, "skip copying the payload to the clipboard")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/working-wheel/config.toml)")
}

func initConfig() {
	// Initialize logger with verbose flag
	logger.Init(verbose)

	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
}

func runToken(cmd *cobra.Command, args []string) error {
	// Interrupt aborts the blocking callback wait.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Println(ui.Divider)
	fmt.Println("Google Calendar OAuth Token Generator")
	fmt.Println(ui.Divider)
	fmt.Println()

	explicit := credentialsPath
	if explicit == "" {
		explicit = os.Getenv("WORKING_WHEEL_CREDENTIALS")
	}
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining working directory: %w", err)
	}

	resolved, err := credentials.Resolve(credentials.DefaultSources(explicit, workDir)...)
	if err != nil {
		var missing *credentials.NoCredentialsError
		if errors.As(err, &missing) {
			printCredentialsHelp()
		}
		return err
	}
	fmt.Printf("Using credentials from: %s\n", resolved.Origin)

	client := resolved.Doc.Client()

	timeout := cfg.Auth.CallbackTimeout
	if timeoutFlag > 0 {
		timeout = timeoutFlag
	}
	port := cfg.Auth.ListenPort
	if portFlag >= 0 {
		port = portFlag
	}

	fmt.Println("\nStarting OAuth flow...")
	fmt.Println("A browser window will open for authentication.")

	tok, err := authflow.Authorize(ctx, client.OAuthConfig(authflow.Scopes...), authflow.Options{
		Timeout: timeout,
		Port:    port,
	})
	if err != nil {
		fmt.Printf("\n%s Authentication failed\n", ui.Cross)
		return err
	}
	fmt.Printf("\n%s Authentication successful!\n", ui.Check)

	emitter := payload.NewEmitter(cmd.OutOrStdout())
	withClipboard := cfg.Output.Clipboard && !noClipboard
	return emitter.Emit(payload.Build(tok, client, authflow.Scopes), withClipboard)
}

func printCredentialsHelp() {
	fmt.Println()
	fmt.Printf("%s No credentials.json file found!\n", ui.Cross)
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("1. Place your credentials.json in the current directory")
	fmt.Println("2. Specify a custom path: get-token --credentials /path/to/credentials.json")
	fmt.Println("3. Use a build with bundled default credentials (if available)")
	fmt.Println()
	fmt.Println("To get credentials:")
	fmt.Println("  1. Go to https://console.cloud.google.com/apis/credentials")
	fmt.Println("  2. Create an OAuth 2.0 Client ID (Desktop app)")
	fmt.Println("  3. Download it as credentials.json")
}
