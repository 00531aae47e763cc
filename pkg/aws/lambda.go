package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"go.uber.org/zap"

	"github.com/younsl/lambda-function-manager/internal/logging"
	"github.com/younsl/lambda-function-manager/internal/models"
	"github.com/younsl/lambda-function-manager/pkg/utils"
)

// LambdaAPI is the subset of the Lambda API used by LambdaClient
type LambdaAPI interface {
	ListFunctions(ctx context.Context, params *lambda.ListFunctionsInput, optFns ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error)
	GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error)
	ListTags(ctx context.Context, params *lambda.ListTagsInput, optFns ...func(*lambda.Options)) (*lambda.ListTagsOutput, error)
	DeleteFunction(ctx context.Context, params *lambda.DeleteFunctionInput, optFns ...func(*lambda.Options)) (*lambda.DeleteFunctionOutput, error)
}

// LambdaClient struct for Lambda client
type LambdaClient struct {
	client LambdaAPI
	region string
	logger *zap.Logger
}

// NewLambdaClient creates a new LambdaClient from a loaded AWS config
func NewLambdaClient(cfg aws.Config, logger *zap.Logger) *LambdaClient {
	return NewLambdaClientWithAPI(lambda.NewFromConfig(cfg), cfg.Region, logger)
}

// NewLambdaClientWithAPI creates a LambdaClient around an existing API implementation
func NewLambdaClientWithAPI(api LambdaAPI, region string, logger *zap.Logger) *LambdaClient {
	return &LambdaClient{
		client: api,
		region: region,
		logger: logger,
	}
}

// ListFunctions returns every Lambda function in the region along with its tags.
// Functions whose details cannot be fetched are left out and reported in Skipped.
// A listing failure yields an empty inventory.
func (c *LambdaClient) ListFunctions(ctx context.Context) models.Inventory {
	c.logger.Info("Scanning Lambda functions", zap.String("region", c.region))

	names, err := c.listFunctionNames(ctx)
	if err != nil {
		c.logger.Error("Error retrieving Lambda functions", logging.ErrorFields(err)...)
		return models.Inventory{}
	}

	inventory := models.Inventory{
		Functions: make([]models.FunctionRecord, 0, len(names)),
	}

	for _, name := range names {
		record, skip := c.describeFunction(ctx, name)
		if skip != nil {
			c.logger.Warn("Could not get details for function",
				zap.String("function", name),
				zap.String("stage", skip.Stage),
				zap.String("error", skip.Err))
			inventory.Skipped = append(inventory.Skipped, *skip)
			continue
		}
		inventory.Functions = append(inventory.Functions, record)
	}

	c.logger.Debug("Lambda scan finished",
		zap.Int("listed", len(names)),
		zap.Int("described", len(inventory.Functions)),
		zap.Int("skipped", len(inventory.Skipped)))

	return inventory
}

// listFunctionNames walks ListFunctions until NextMarker is exhausted
func (c *LambdaClient) listFunctionNames(ctx context.Context) ([]string, error) {
	var names []string
	var nextMarker *string

	for {
		input := &lambda.ListFunctionsInput{
			Marker: nextMarker,
		}

		result, err := c.client.ListFunctions(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("error listing Lambda functions: %w", err)
		}

		for _, function := range result.Functions {
			if function.FunctionName != nil {
				names = append(names, *function.FunctionName)
			}
		}

		if result.NextMarker == nil || *result.NextMarker == "" {
			break
		}
		nextMarker = result.NextMarker
	}

	return names, nil
}

// describeFunction fetches configuration and tags for a single function
func (c *LambdaClient) describeFunction(ctx context.Context, name string) (models.FunctionRecord, *models.SkipReason) {
	skip := func(stage string, err error) (models.FunctionRecord, *models.SkipReason) {
		return models.FunctionRecord{}, &models.SkipReason{
			FunctionName: name,
			Stage:        stage,
			Err:          err.Error(),
		}
	}

	output, err := c.client.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(name),
	})
	if err != nil {
		return skip(models.SkipStageDetail, err)
	}
	if output.Configuration == nil {
		return skip(models.SkipStageDetail, fmt.Errorf("no configuration returned"))
	}

	cfg := output.Configuration
	record := models.FunctionRecord{
		FunctionName: utils.DerefOr(cfg.FunctionName, name),
		FunctionArn:  utils.SafeDeref(cfg.FunctionArn),
		LastModified: utils.SafeDeref(cfg.LastModified),
		Runtime:      string(cfg.Runtime),
		Description:  utils.SafeDeref(cfg.Description),
		State:        string(cfg.State),
		PackageType:  string(cfg.PackageType),
	}

	// Image functions carry no runtime; a missing state means the function predates states
	if record.Runtime == "" {
		record.Runtime = "unknown"
	}
	if record.State == "" {
		record.State = models.FunctionStateActive
	}
	if record.PackageType == "" {
		record.PackageType = "Zip"
	}

	tags, err := c.client.ListTags(ctx, &lambda.ListTagsInput{
		Resource: aws.String(record.FunctionArn),
	})
	if err != nil {
		return skip(models.SkipStageTags, err)
	}

	record.Tags = make(map[string]string, len(tags.Tags))
	for k, v := range tags.Tags {
		record.Tags[k] = v
	}

	return record, nil
}

// DeleteFunction deletes a single function. The API error is returned unwrapped
// so callers can record it next to the function name.
func (c *LambdaClient) DeleteFunction(ctx context.Context, name string) error {
	_, err := c.client.DeleteFunction(ctx, &lambda.DeleteFunctionInput{
		FunctionName: aws.String(name),
	})
	return err
}
