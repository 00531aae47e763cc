package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// DefaultMetricsNamespace is the CloudWatch namespace run metrics are published to
const DefaultMetricsNamespace = "Lambda/Management"

// Metric names
const (
	MetricTotalFunctions    = "TotalFunctions"
	MetricAnalyzedFunctions = "AnalyzedFunctions"
	MetricDeletedFunctions  = "DeletedFunctions"
)

// CloudWatchAPI is the subset of the CloudWatch API used by MetricsClient
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// MetricsClient publishes run counters to CloudWatch
type MetricsClient struct {
	client    CloudWatchAPI
	namespace string
}

// NewMetricsClient creates a new MetricsClient from a loaded AWS config
func NewMetricsClient(cfg aws.Config, namespace string) *MetricsClient {
	return NewMetricsClientWithAPI(cloudwatch.NewFromConfig(cfg), namespace)
}

// NewMetricsClientWithAPI creates a MetricsClient around an existing API implementation
func NewMetricsClientWithAPI(api CloudWatchAPI, namespace string) *MetricsClient {
	if namespace == "" {
		namespace = DefaultMetricsNamespace
	}
	return &MetricsClient{
		client:    api,
		namespace: namespace,
	}
}

// PutRunMetrics sends the three run counters in a single PutMetricData call
func (c *MetricsClient) PutRunMetrics(ctx context.Context, total, analyzed, deleted int) error {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(c.namespace),
		MetricData: []cwTypes.MetricDatum{
			countDatum(MetricTotalFunctions, total),
			countDatum(MetricAnalyzedFunctions, analyzed),
			countDatum(MetricDeletedFunctions, deleted),
		},
	}

	if _, err := c.client.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("error putting metrics to %s: %w", c.namespace, err)
	}
	return nil
}

func countDatum(name string, value int) cwTypes.MetricDatum {
	return cwTypes.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(float64(value)),
		Unit:       cwTypes.StandardUnitCount,
	}
}
