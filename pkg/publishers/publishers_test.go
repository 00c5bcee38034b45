package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
	if cfg, ok := reg.ByID("http2"); !ok || cfg.HTTP.Method != "POST" || cfg.HTTP.TimeoutSeconds != 5 {
		t.Fatalf("expected http defaults applied, got %#v", cfg.HTTP)
	}
}

func TestLoadRegistryAllSinkTypes(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: queue
    type: SQS
    sqs:
      uri: http://localhost:4566/000000000000/backtype
      region: us-east-1
      endpoint: http://localhost:4566
      access_key_id: test
      secret_access_key: test
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:us-east-1:000000000000:backtype
      region: " us-east-1 "
  - id: pubsub
    type: gcp_pubsub
    gcp_pubsub:
      project_id: demo
      topic: comments
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	queue, _ := reg.ByID("queue")
	if queue.Type != TypeSQS || queue.SQS.Endpoint != "http://localhost:4566" || queue.SQS.AccessKeyID != "test" {
		t.Fatalf("sqs config not decoded: %#v", queue.SQS)
	}
	topic, _ := reg.ByID("topic")
	if topic.SNS.Region != "us-east-1" {
		t.Fatalf("sns region not trimmed: %q", topic.SNS.Region)
	}
	ps, _ := reg.ByID("pubsub")
	if ps.GCPPubSub.ProjectID != "demo" || ps.GCPPubSub.Topic != "comments" {
		t.Fatalf("pubsub config not decoded: %#v", ps.GCPPubSub)
	}
	if len(reg.All()) != 3 {
		t.Fatalf("expected 3 publishers, got %d", len(reg.All()))
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "publishers.json", `{"publishers":[{"id":"q","type":"sqs","sqs":{"uri":"https://sqs/q","region":"eu-west-1"}}]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("q")
	if !ok || cfg.SQS.Region != "eu-west-1" {
		t.Fatalf("json config not decoded: %#v", cfg)
	}
}

func TestLoadRegistryRejectsDuplicates(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: a
    type: http
    http: {url: https://example.com}
  - id: a
    type: http
    http: {url: https://example.com}
`)
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestPublisherConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  PublisherConfig
	}{
		{"missing http", PublisherConfig{ID: "h1", Type: TypeHTTP}},
		{"missing sns arn", PublisherConfig{ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{AWSConnConfig: AWSConnConfig{Region: "us-east-1"}}}},
		{"missing pubsub topic", PublisherConfig{ID: "g1", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubPublisherConfig{ProjectID: "p"}}},
		{"unknown type", PublisherConfig{ID: "x", Type: "kafka"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
