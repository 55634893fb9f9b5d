package observability

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statdash/domain/analytics"
)

type fakeCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func statsWith(n int) *analytics.SpaceStatistics {
	stats := analytics.NewSpaceStatistics(n)
	for i := 0; i < n; i++ {
		stats.Add(analytics.StructureSummary{ID: fmt.Sprintf("s%04d", i), Name: fmt.Sprintf("S%d", i), Count: i})
	}
	return stats
}

func TestCloudWatchPublisher_Publish(t *testing.T) {
	fake := &fakeCloudWatch{}
	p := NewCloudWatchPublisher("Statdash/test", "space-1", fake)
	fixed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	require.NoError(t, p.PublishSpaceStatistics(context.Background(), statsWith(2)))

	require.Len(t, fake.inputs, 1)
	in := fake.inputs[0]
	assert.Equal(t, "Statdash/test", aws.ToString(in.Namespace))
	require.Len(t, in.MetricData, 5)
	assert.Equal(t, "TotalStructures", aws.ToString(in.MetricData[0].MetricName))
	assert.Equal(t, 2.0, aws.ToFloat64(in.MetricData[0].Value))
	assert.Equal(t, "ObjectCount", aws.ToString(in.MetricData[4].MetricName))
	assert.Equal(t, "S1", aws.ToString(in.MetricData[4].Dimensions[1].Value))
	assert.Equal(t, fixed, aws.ToTime(in.MetricData[4].Timestamp))
}

func TestCloudWatchPublisher_Batches(t *testing.T) {
	fake := &fakeCloudWatch{}
	p := NewCloudWatchPublisher("Statdash/test", "space-1", fake)

	require.NoError(t, p.PublishSpaceStatistics(context.Background(), statsWith(maxDatumsPerCall)))

	require.Len(t, fake.inputs, 2)
	assert.Len(t, fake.inputs[0].MetricData, maxDatumsPerCall)
	assert.Len(t, fake.inputs[1].MetricData, 3)
}

func TestCloudWatchPublisher_Errors(t *testing.T) {
	fake := &fakeCloudWatch{err: errors.New("throttled")}
	p := NewCloudWatchPublisher("Statdash/test", "space-1", fake)

	err := p.PublishSpaceStatistics(context.Background(), statsWith(1))

	assert.ErrorContains(t, err, "failed to put metric data: throttled")
	assert.NoError(t, NewCloudWatchPublisher("ns", "s", nil).PublishSpaceStatistics(context.Background(), statsWith(1)))
}
