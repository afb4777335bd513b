package metric_test

import (
	htmltemplate "html/template"
	"reflect"
	"sync"
	"testing"
	texttemplate "text/template"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/observable/metric"
)

type meteredValue struct{}

type meteredPointer struct{}

func TestMeter(t *testing.T) {
	// test cases
	var tests = []struct {
		observable            interface{}
		routines              int
		mutations             int
		expectedMutations     string
		expectedNotifications string
	}{
		{
			observable:            meteredValue{},
			routines:              2,
			mutations:             10,
			expectedMutations:     "20",
			expectedNotifications: "40",
		},
		{
			observable:            &meteredPointer{},
			routines:              4,
			mutations:             5,
			expectedMutations:     "20",
			expectedNotifications: "40",
		},
	}
	// function to test meter.
	testFn := func(m *metric.Meter, wg *sync.WaitGroup, mutations int) {
		for i := 0; i < mutations; i++ {
			m.AddMutation()
			m.AddNotification()
			m.AddNotification()
		}
		wg.Done()
	}

	for _, c := range tests {
		wg := &sync.WaitGroup{}
		wg.Add(c.routines)
		for i := 0; i < c.routines; i++ {
			go testFn(metric.Of(c.observable), wg, c.mutations)
		}
		// check if no data race.
		wg.Wait()
		values := metric.Get(c.observable)
		assert.Equal(t, c.expectedMutations, values[metric.MutationCounter])
		assert.Equal(t, c.expectedNotifications, values[metric.NotificationCounter])
		assert.Equal(t, "0", values[metric.FailureCounter])
	}
}

type sharedMeter struct{}

func TestMeterSharedByPointer(t *testing.T) {
	metric.For(reflect.TypeOf(sharedMeter{})).AddMutator()
	metric.For(reflect.TypeOf(&sharedMeter{})).AddMutator()
	metric.Of(&sharedMeter{}).AddFailure()

	values := metric.Get(reflect.TypeOf(sharedMeter{}))
	assert.Equal(t, "2", values[metric.MutatorCounter])
	assert.Equal(t, "1", values[metric.FailureCounter])

	all := metric.GetAll()
	assert.Contains(t, all, "metric_test.sharedMeter")
	assert.Equal(t, values, all["metric_test.sharedMeter"])
}

func TestGetUnknown(t *testing.T) {
	type unknown struct{}
	assert.Empty(t, metric.Get(unknown{}))
}

func TestMeterSameTypeName(t *testing.T) {
	html := reflect.TypeOf(htmltemplate.Template{})
	text := reflect.TypeOf(texttemplate.Template{})
	assert.NotSame(t, metric.For(html), metric.For(text))

	metric.For(html).AddMutation()
	metric.For(text).AddMutation()
	metric.For(text).AddMutation()
	assert.Equal(t, "1", metric.Get(html)[metric.MutationCounter])
	assert.Equal(t, "2", metric.Get(text)[metric.MutationCounter])

	all := metric.GetAll()
	assert.Equal(t, metric.Get(html), all["template.Template"])
	assert.Equal(t, metric.Get(text), all["template.Template(text/template)"])
}
