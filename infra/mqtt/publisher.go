// Package mqtt publishes charging statistics to an MQTT broker.
package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/chargelog/core/factory"
	coremetrics "github.com/kilianp07/chargelog/core/metrics"
	"github.com/kilianp07/chargelog/core/model"
	coremon "github.com/kilianp07/chargelog/core/monitoring"
	"github.com/kilianp07/chargelog/core/stats"
	"github.com/kilianp07/chargelog/infra/logger"
)

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// StatsPublisher is a report sink publishing JSON payloads. Reports are
// retained on <prefix>/<vehicle>/stats so that late subscribers get the
// latest figures; sessions go to <prefix>/<vehicle>/session.
type StatsPublisher struct {
	cli        pahoClient
	prefix     string
	qos        byte
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewStatsPublisher connects to the broker described by cfg.
func NewStatsPublisher(cfg Config) (*StatsPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(paho.Client, *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &StatsPublisher{
		cli:        c,
		prefix:     strings.TrimSuffix(cfg.TopicPrefix, "/"),
		qos:        cfg.QoS,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

// topicSegment replaces the characters MQTT reserves in topic levels.
func topicSegment(s string) string {
	return strings.NewReplacer("/", "_", "+", "_", "#", "_").Replace(s)
}

// Topic returns the topic of kind ("stats" or "session") for vehicleID.
func (p *StatsPublisher) Topic(vehicleID, kind string) string {
	return fmt.Sprintf("%s/%s/%s", p.prefix, topicSegment(vehicleID), kind)
}

func (p *StatsPublisher) publish(topic string, retained bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, retained, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.log.Debugf("published %d bytes to %s", len(payload), topic)
			return nil
		}
		p.log.Errorf("publish attempt %d to %s failed: %v", attempt+1, topic, publishErr)
		if attempt < p.maxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	coremon.CaptureException(publishErr, map[string]string{"module": "mqtt", "topic": topic})
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

// RecordReport publishes r as a retained message.
func (p *StatsPublisher) RecordReport(vehicleID string, r stats.Report) error {
	return p.publish(p.Topic(vehicleID, "stats"), true, r)
}

// RecordSession publishes a newly logged session.
func (p *StatsPublisher) RecordSession(s model.ChargingSession) error {
	return p.publish(p.Topic(s.VehicleID, "session"), false, s)
}

// Close disconnects from the broker.
func (p *StatsPublisher) Close() error {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
	return nil
}

func init() {
	_ = coremetrics.RegisterSink("mqtt", func(conf map[string]any) (coremetrics.ReportSink, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewStatsPublisher(c)
	})
}
