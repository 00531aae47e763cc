package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/younsl/lambda-function-manager/internal/config"
	"github.com/younsl/lambda-function-manager/internal/logging"
	"github.com/younsl/lambda-function-manager/internal/version"
	"github.com/younsl/lambda-function-manager/pkg/aws"
	"github.com/younsl/lambda-function-manager/pkg/cleanup"
	"github.com/younsl/lambda-function-manager/pkg/formatter"
	"github.com/younsl/lambda-function-manager/pkg/utils"
)

// Output formats for local runs
const (
	outputJSON  = "json"
	outputTable = "table"
)

func main() {
	// The Lambda runtime sets AWS_LAMBDA_RUNTIME_API for custom runtimes
	if _, ok := os.LookupEnv("AWS_LAMBDA_RUNTIME_API"); ok {
		startLambda()
		return
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRunner wires the AWS collaborators into a cleanup runner
func newRunner(ctx context.Context, loader *config.Loader, logger *zap.Logger) (*cleanup.Runner, error) {
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	awsCfg, err := aws.LoadConfig(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}

	lambdaClient := aws.NewLambdaClient(awsCfg, logger)
	metricsClient := aws.NewMetricsClient(awsCfg, cfg.MetricsNamespace)

	return cleanup.NewRunner(loader.LoadRetention, lambdaClient, lambdaClient, metricsClient, logger), nil
}

// startLambda hands control to the Lambda runtime
func startLambda() {
	loader := config.NewLoader()
	logger, err := logging.New(loader.LogLevel(), false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	info := version.Get()
	logger.Info("Lambda function manager starting",
		zap.String("version", info.Version),
		zap.String("gitCommit", info.GitCommit))

	// Startup failures are reported per invocation so the caller always gets a result
	runner, initErr := newRunner(context.Background(), loader, logger)
	if initErr != nil {
		logger.Error("Failed to initialize cleanup runner", zap.Error(initErr))
	}

	h := &handler{runner: runner, initErr: initErr, logger: logger}
	lambda.Start(h.Handle)
}

func newRootCmd() *cobra.Command {
	var (
		showVersion bool
		output      string
	)

	loader := config.NewLoader()

	rootCmd := &cobra.Command{
		Use:   "lambda-function-manager",
		Short: "Delete outdated AWS Lambda functions",
		Long: `lambda-function-manager scans the Lambda functions of an AWS account,
deletes the ones older than the retention period that are not protected,
and publishes run counters to CloudWatch.

Inside the Lambda runtime the same binary serves scheduled invocations.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If version flag is set, print version info and exit
			if showVersion {
				fmt.Printf("lambda-function-manager %s\n", version.Get())
				return nil
			}

			if output != outputJSON && output != outputTable {
				return fmt.Errorf("unsupported output %q, use %s or %s", output, outputJSON, outputTable)
			}

			if err := loader.BindFlags(cmd.Flags()); err != nil {
				return err
			}

			logger, err := logging.New(loader.LogLevel(), true)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return runLocal(cmd.Context(), loader, logger, output)
		},
	}

	// Version flag
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")

	// Run flags, each overrides its environment variable
	rootCmd.Flags().Int("retention-days", config.DefaultRetentionDays, "Delete functions not modified for this many days (RETENTION_DAYS)")
	rootCmd.Flags().String("environment", config.DefaultEnvironment, "Environment label (ENVIRONMENT)")
	rootCmd.Flags().String("log-level", logging.DefaultLevel, "Log level (LOG_LEVEL)")
	rootCmd.Flags().Bool("dry-run", false, "Only report functions that would be deleted (DRY_RUN)")
	rootCmd.Flags().StringP("region", "r", "", "AWS region to clean up (AWS_REGION)")
	rootCmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table or json")

	return rootCmd
}

// runLocal performs one cleanup run outside the Lambda runtime
func runLocal(ctx context.Context, loader *config.Loader, logger *zap.Logger, output string) error {
	startTime := time.Now()

	runner, err := newRunner(ctx, loader, logger)
	if err != nil {
		return err
	}

	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Cleaning up Lambda functions ..."
	s.Start()

	report, runErr := runner.Execute(ctx)
	duration := time.Since(startTime)

	s.FinalMSG = fmt.Sprintf("✓ Lambda cleanup finished in %.2f seconds\n", duration.Seconds())
	s.Stop()

	if output == outputJSON {
		response := cleanup.NewSuccessResponse(report)
		if runErr != nil {
			response = cleanup.NewErrorResponse(runErr)
		}
		out, err := utils.FormatJSON(response)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return runErr
	}

	if runErr != nil {
		return runErr
	}

	formatter.PrintCleanupTable(os.Stdout, report, startTime, duration)
	formatter.PrintCleanupSummary(os.Stdout, report)
	return nil
}
