package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/smartdevs17/evaluation-logger/internal/account"
	"github.com/smartdevs17/evaluation-logger/internal/config"
	"github.com/smartdevs17/evaluation-logger/internal/evaluation"
	"github.com/smartdevs17/evaluation-logger/internal/logging"
	"github.com/smartdevs17/evaluation-logger/internal/metrics"
	"github.com/smartdevs17/evaluation-logger/internal/models"
	"github.com/smartdevs17/evaluation-logger/internal/server"
	"github.com/smartdevs17/evaluation-logger/pkg/utils"
)

// AppVersion contains the application version
const AppVersion = "1.0.0"

// Application wires the logging middleware and its collaborators
type Application struct {
	config     *config.Config
	logger     *logrus.Logger
	metrics    *metrics.Manager
	logClient  *logging.Client
	events     *logging.Logger
	evaluation *evaluation.Client
	accounts   *account.Service
	server     *server.HTTPServer
}

// NewApplication creates a new application instance
func NewApplication(cfg *config.Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{config: cfg}

	if err := app.initializeLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.initializeComponents()
	return app, nil
}

// initializeLogger initializes the application logger
func (app *Application) initializeLogger() error {
	logCfg := app.config.Logging

	if err := utils.InitLogger(logCfg.Level, logCfg.Format, logCfg.Output, logCfg.File); err != nil {
		return err
	}

	app.logger = utils.GetLogger()
	app.logger.WithFields(logrus.Fields{
		"level":  logCfg.Level,
		"format": logCfg.Format,
		"output": logCfg.Output,
	}).Debug("Logger initialized")

	return nil
}

// initializeComponents builds the single shared log client and everything that uses it
func (app *Application) initializeComponents() {
	svc := app.config.Service

	app.metrics = metrics.NewManager()
	pm := app.metrics.GetPrometheusMetrics()

	app.logClient = logging.NewClient(&logging.ClientConfig{
		BaseURL:      svc.BaseURL,
		LogsPath:     svc.LogsPath,
		Timeout:      svc.RequestTimeout,
		MaxErrorBody: svc.MaxErrorBody,
		UserAgent:    fmt.Sprintf("%s/%s", app.config.App.Name, AppVersion),
	}, nil, pm)
	app.events = logging.NewLogger(app.logClient, models.Package(app.config.Middleware.DefaultPackage))

	app.evaluation = evaluation.NewClient(svc.BaseURL, svc.RequestTimeout, nil, pm)
	app.evaluation.SetMaxErrorBody(svc.MaxErrorBody)
	app.accounts = account.NewService(app.evaluation, app.events)

	app.logger.WithField("endpoint", app.logClient.Endpoint()).Debug("Log client initialized")
}

// initializeServer initializes the HTTP server
func (app *Application) initializeServer() error {
	srvCfg := app.config.Server

	var err error
	app.server, err = server.NewHTTPServer(&server.ServerConfig{
		Port:              srvCfg.Port,
		Host:              srvCfg.Host,
		ReadTimeout:       srvCfg.ReadTimeout,
		WriteTimeout:      srvCfg.WriteTimeout,
		EnableMetrics:     srvCfg.EnableMetrics,
		EnableHealth:      srvCfg.EnableHealth,
		EnableCompression: srvCfg.EnableCompression,
		HistorySize:       srvCfg.HistorySize,
		DemoDelay:         app.config.Demo.Delay,
		Version:           AppVersion,
	}, app.events, app.accounts, app.evaluation, app.metrics)
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}
	return nil
}

// loadApplication loads configuration and applies CLI overrides
func loadApplication() (*Application, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if level := viper.GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return NewApplication(cfg)
}

// printJSON writes a command result to w. Local logs go to stderr by default
// so results can be piped.
func printJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// resultError turns a failed submission into a command error so the exit code is non-zero
func resultError(w io.Writer, result models.SubmissionResult) error {
	printJSON(w, result)
	if result.Success {
		return nil
	}
	return fmt.Errorf("log submission failed: %s", result.Message)
}

// CLI Commands

var rootCmd = &cobra.Command{
	Use:     "evallogger",
	Short:   "Evaluation service logging middleware",
	Long:    `Validates structured log records against the evaluation service vocabulary and ships them to its /logs endpoint.`,
	Version: AppVersion,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApplication()
		if err != nil {
			return err
		}
		if err := app.initializeServer(); err != nil {
			return err
		}

		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

		if err := app.server.Start(); err != nil {
			return err
		}
		app.logger.WithFields(logrus.Fields{
			"version":      AppVersion,
			"log_endpoint": app.logClient.Endpoint(),
		}).Info("Evaluation logger started")

		<-signalChan
		app.logger.Info("Received shutdown signal, stopping")

		return app.server.Stop()
	},
}

var logCmd = &cobra.Command{
	Use:   "log [message]",
	Short: "Submit a single log record",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApplication()
		if err != nil {
			return err
		}
		stack, _ := cmd.Flags().GetString("stack")
		level, _ := cmd.Flags().GetString("level")
		pkg, _ := cmd.Flags().GetString("package")

		result := app.events.Log(cmd.Context(), models.Stack(stack), models.Level(level), models.Package(pkg), strings.Join(args, " "))
		return resultError(cmd.OutOrStdout(), result)
	},
}

var actionCmd = &cobra.Command{
	Use:   "action <description> <identifier>",
	Short: "Record a user action (frontend/info)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApplication()
		if err != nil {
			return err
		}
		return resultError(cmd.OutOrStdout(), app.events.LogUserAction(cmd.Context(), args[0], args[1]))
	},
}

var errorCmd = &cobra.Command{
	Use:   "error [message]",
	Short: "Report an observed failure at error level",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApplication()
		if err != nil {
			return err
		}
		stack, _ := cmd.Flags().GetString("stack")
		pkg, _ := cmd.Flags().GetString("package")

		return resultError(cmd.OutOrStdout(), app.events.Error(cmd.Context(), models.Stack(stack), models.Package(pkg), strings.Join(args, " ")))
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Send the demo record sequence",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApplication()
		if err != nil {
			return err
		}

		failed := 0
		err = logging.RunSequence(cmd.Context(), app.events, logging.DemoRecords(), app.config.Demo.Delay,
			func(record models.LogRecord, result models.SubmissionResult) {
				status := "ok"
				if !result.Success {
					status = "FAILED " + result.Message
					failed++
				}
				fmt.Printf("[%s/%s/%s] %s: %s\n", record.Stack, record.Level, record.Package, record.Message, status)
			})
		if err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d demo records failed", failed)
		}
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register with the evaluation service",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApplication()
		if err != nil {
			return err
		}
		f := cmd.Flags()
		data := models.RegistrationData{}
		data.Email, _ = f.GetString("email")
		data.Name, _ = f.GetString("name")
		data.MobileNo, _ = f.GetString("mobile")
		data.GithubUsername, _ = f.GetString("github")
		data.RollNo, _ = f.GetString("roll-no")
		data.AccessCode, _ = f.GetString("access-code")

		result := app.accounts.Register(cmd.Context(), data)
		printJSON(cmd.OutOrStdout(), result)
		if !result.Success {
			return errors.New(result.Error)
		}
		return nil
	},
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Obtain an access token from the evaluation service",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApplication()
		if err != nil {
			return err
		}
		f := cmd.Flags()
		data := models.AuthData{}
		data.Email, _ = f.GetString("email")
		data.Name, _ = f.GetString("name")
		data.RollNo, _ = f.GetString("roll-no")
		data.AccessCode, _ = f.GetString("access-code")
		data.ClientID, _ = f.GetString("client-id")
		data.ClientSecret, _ = f.GetString("client-secret")

		result := app.accounts.Authenticate(cmd.Context(), data)
		printJSON(cmd.OutOrStdout(), result)
		if !result.Success {
			return errors.New(result.Error)
		}
		return nil
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the evaluation service is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApplication()
		if err != nil {
			return err
		}
		if !app.evaluation.TestConnection(cmd.Context()) {
			return fmt.Errorf("evaluation service at %s is not reachable", app.config.Service.BaseURL)
		}
		fmt.Println("✓ Evaluation service reachable")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Evaluation Logger %s\n", AppVersion)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

var validateConfigCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetString("config"))
		if err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}

		fmt.Printf("Configuration is valid!\n")
		fmt.Printf("Environment: %s\n", cfg.App.Environment)
		fmt.Printf("Log endpoint: %s\n", logging.JoinURL(cfg.Service.BaseURL, cfg.Service.LogsPath))
		fmt.Printf("Default package: %s\n", cfg.Middleware.DefaultPackage)
		return nil
	},
}

func vocabularyHelp() (stacks, levels, packages string) {
	var s, l, p []string
	for _, v := range models.Stacks() {
		s = append(s, v.String())
	}
	for _, v := range models.Levels() {
		l = append(l, v.String())
	}
	for _, v := range models.Packages() {
		p = append(p, v.String())
	}
	return strings.Join(s, "|"), strings.Join(l, "|"), strings.Join(p, "|")
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "local log level (debug, info, warn, error)")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	stacks, levels, packages := vocabularyHelp()

	logCmd.Flags().String("stack", "frontend", stacks)
	logCmd.Flags().String("level", "info", levels)
	logCmd.Flags().String("package", "api", packages)

	errorCmd.Flags().String("stack", "frontend", stacks)
	errorCmd.Flags().String("package", "api", packages)

	for _, name := range []string{"email", "name", "mobile", "github", "roll-no", "access-code"} {
		registerCmd.Flags().String(name, "", "registration "+name)
	}
	for _, name := range []string{"email", "name", "roll-no", "access-code", "client-id", "client-secret"} {
		authCmd.Flags().String(name, "", "auth "+name)
	}

	rootCmd.AddCommand(serveCmd, logCmd, actionCmd, errorCmd, demoCmd, registerCmd, authCmd, pingCmd, versionCmd, configCmd)
	configCmd.AddCommand(validateConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
