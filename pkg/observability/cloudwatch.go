package observability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"statdash/domain/analytics"
)

// maxDatumsPerCall is the PutMetricData batch limit
const maxDatumsPerCall = 1000

// MetricDataAPI is the subset of the CloudWatch client used here
type MetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchPublisher exports space statistics as CloudWatch metrics
type CloudWatchPublisher struct {
	namespace string
	spaceID   string
	client    MetricDataAPI
	now       func() time.Time
}

// NewCloudWatchPublisher creates a publisher writing to namespace
func NewCloudWatchPublisher(namespace, spaceID string, client MetricDataAPI) *CloudWatchPublisher {
	return &CloudWatchPublisher{
		namespace: namespace,
		spaceID:   spaceID,
		client:    client,
		now:       time.Now,
	}
}

// PublishSpaceStatistics sends the space totals and one ObjectCount datum per structure
func (p *CloudWatchPublisher) PublishSpaceStatistics(ctx context.Context, stats *analytics.SpaceStatistics) error {
	if p.client == nil || stats == nil {
		return nil
	}

	data := p.datums(stats)
	for start := 0; start < len(data); start += maxDatumsPerCall {
		end := min(start+maxDatumsPerCall, len(data))
		input := &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(p.namespace),
			MetricData: data[start:end],
		}
		if _, err := p.client.PutMetricData(ctx, input); err != nil {
			return fmt.Errorf("failed to put metric data: %w", err)
		}
	}
	return nil
}

func (p *CloudWatchPublisher) datums(stats *analytics.SpaceStatistics) []types.MetricDatum {
	ts := aws.Time(p.now())
	space := types.Dimension{Name: aws.String("SpaceId"), Value: aws.String(p.spaceID)}

	data := []types.MetricDatum{
		{
			MetricName: aws.String("TotalStructures"),
			Dimensions: []types.Dimension{space},
			Value:      aws.Float64(float64(stats.TotalStructures)),
			Unit:       types.StandardUnitCount,
			Timestamp:  ts,
		},
		{
			MetricName: aws.String("TotalCollections"),
			Dimensions: []types.Dimension{space},
			Value:      aws.Float64(float64(stats.TotalCollections)),
			Unit:       types.StandardUnitCount,
			Timestamp:  ts,
		},
		{
			MetricName: aws.String("TotalObjects"),
			Dimensions: []types.Dimension{space},
			Value:      aws.Float64(float64(stats.TotalObjects)),
			Unit:       types.StandardUnitCount,
			Timestamp:  ts,
		},
	}

	for _, s := range stats.Ordered() {
		data = append(data, types.MetricDatum{
			MetricName: aws.String("ObjectCount"),
			Dimensions: []types.Dimension{
				space,
				{Name: aws.String("Structure"), Value: aws.String(s.Name)},
				{Name: aws.String("Estimated"), Value: aws.String(strconv.FormatBool(s.Estimated))},
			},
			Value:     aws.Float64(float64(s.Count)),
			Unit:      types.StandardUnitCount,
			Timestamp: ts,
		})
	}

	return data
}
