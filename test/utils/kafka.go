package testutils

import (
	"bytes"
	"os/exec"
	"testing"
)

// CreateKafkaTopic creates a topic on the dockerized broker the integration
// tests run against.
func CreateKafkaTopic(t *testing.T, topic string) {
	t.Helper()

	cmd := exec.Command(
		"docker", "exec", "kafka",
		"kafka-topics", "--create",
		"--topic", topic,
		"--bootstrap-server", "localhost:9092",
		"--replication-factor", "1",
		"--partitions", "1",
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		t.Skipf("could not create topic %s (kafka not running?): %v\n%s", topic, err, out.String())
	}

	t.Logf("topic %s created", topic)
}
