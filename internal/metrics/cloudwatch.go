// Package metrics emits operational counters to CloudWatch. Emission is
// best-effort: failures are logged and never surface to callers.
package metrics

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/kithulovali/kfc-ordering/internal/aws"
)

// Emitter publishes counters under a single namespace. A nil Emitter is a
// valid no-op, so call sites don't need nil checks on every path.
type Emitter struct {
	client    aws.CloudWatchAPI
	namespace string
}

// NewEmitter returns an Emitter for the namespace.
func NewEmitter(client aws.CloudWatchAPI, namespace string) *Emitter {
	return &Emitter{client: client, namespace: namespace}
}

// Count publishes a count metric with optional dimensions.
func (e *Emitter) Count(ctx context.Context, name string, value float64, dims map[string]string) {
	if e == nil || e.client == nil {
		return
	}
	datum := cwtypes.MetricDatum{
		MetricName: &name,
		Value:      &value,
		Unit:       cwtypes.StandardUnitCount,
	}
	for k, v := range dims {
		datum.Dimensions = append(datum.Dimensions, cwtypes.Dimension{Name: &k, Value: &v})
	}
	_, err := e.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  &e.namespace,
		MetricData: []cwtypes.MetricDatum{datum},
	})
	if err != nil {
		log.Printf("[metrics] put metric %s failed: %v", name, err)
	}
}
