//go:build integration

package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/chargelog/core/stats"
)

func startMosquitto(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		Cmd:          []string{"mosquitto", "-c", "/mosquitto-no-auth.conf"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() { _ = cont.Terminate(context.Background()) })
	host, err := cont.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	return fmt.Sprintf("tcp://%s:%s", host, port.Port())
}

func TestStatsPublisherRetainedReport(t *testing.T) {
	broker := startMosquitto(t)
	p, err := NewStatsPublisher(Config{Broker: broker, ClientID: "chargelog-it", QoS: 1})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer func() { _ = p.Close() }()
	if err := p.RecordReport("Leaf", stats.Report{VehicleID: "Leaf", Sessions: 3}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := make(chan stats.Report, 1)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("chargelog-sub"))
	if tok := sub.Connect(); tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscriber connect: %v", tok.Error())
	}
	defer sub.Disconnect(100)
	tok := sub.Subscribe("chargelog/+/stats", 1, func(_ paho.Client, msg paho.Message) {
		var r stats.Report
		if json.Unmarshal(msg.Payload(), &r) == nil {
			got <- r
		}
	})
	if tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscribe: %v", tok.Error())
	}
	select {
	case r := <-got:
		if r.Sessions != 3 {
			t.Fatalf("unexpected report %+v", r)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("retained report not received")
	}
}
