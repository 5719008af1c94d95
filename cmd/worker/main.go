package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/streadway/amqp"

	"github.com/sameer-shreyas/ResumeOptimizer/internal/analysis"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/bootstrap"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/shared/config"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/shared/telemetry"
	"github.com/sameer-shreyas/ResumeOptimizer/internal/workerproc"
)

const (
	defaultVisibilitySeconds  = 1200
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	switch cfg.QueueBackend {
	case "sqs":
		runSQS(ctx, cfg, app)
	case "amqp":
		runAMQP(ctx, cfg, app)
	default:
		log.Fatalf("worker requires QUEUE_BACKEND=sqs or amqp, got %q", cfg.QueueBackend)
	}
}

func runSQS(ctx context.Context, cfg config.Config, app *bootstrap.App) {
	queueURL := strings.TrimSpace(cfg.SQSQueueURL)
	if queueURL == "" {
		log.Fatal("SQS_QUEUE_URL is required")
	}
	region := strings.TrimSpace(cfg.AWSRegion)
	if region == "" {
		region = "us-east-1"
	}

	visibilitySeconds := envInt("SQS_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)
	concurrency := envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency)
	shutdownTimeout := time.Duration(envInt("SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	var client sqsAPI = sqs.NewFromConfig(awsCfg)

	sem := make(chan struct{}, max(1, concurrency))
	var wg sync.WaitGroup

	log.Printf("worker started backend=sqs queue=%s concurrency=%d visibility=%ds", queueURL, concurrency, visibilitySeconds)

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		resp, err := client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   int32(visibilitySeconds),
			AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName("ApproximateReceiveCount")},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			log.Printf("receive message: %v", err)
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				handleSQSMessage(ctx, app.AnalysisService, client, queueURL, m)
			}(msg)
		}
	}

	log.Printf("shutdown requested, waiting up to %s for in-flight jobs", shutdownTimeout)
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		log.Printf("shutdown timeout reached; exiting with in-flight jobs")
	}
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// handleSQSMessage processes one delivery. The message is deleted in every
// outcome: a processing failure marks the job failed and failed jobs are
// terminal, so redelivery would be wasted work.
func handleSQSMessage(ctx context.Context, svc *analysis.Service, client sqsAPI, queueURL string, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)

	decoded, meta, parseErr := workerproc.ParseMessage(body)
	if parseErr != nil {
		fields := sqsFields(msg, "")
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = parseErr.Error()
		telemetry.Error("worker.analysis.parse_failed", fields)
		deleteSQSMessage(ctx, client, queueURL, msg, "")
		return
	}

	telemetry.Info("worker.analysis.received", sqsFields(msg, decoded.JobID))

	if err := svc.Run(ctx, decoded); err != nil {
		fields := sqsFields(msg, decoded.JobID)
		fields["error"] = err.Error()
		telemetry.Error("worker.analysis.failed", fields)
		deleteSQSMessage(ctx, client, queueURL, msg, decoded.JobID)
		return
	}

	if deleteSQSMessage(ctx, client, queueURL, msg, decoded.JobID) {
		telemetry.Info("worker.analysis.completed", sqsFields(msg, decoded.JobID))
	}
}

func deleteSQSMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, jobID string) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields := sqsFields(msg, jobID)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.analysis.delete_failed", fields)
		return false
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := sqsFields(msg, jobID)
		fields["error"] = err.Error()
		telemetry.Error("worker.analysis.delete_failed", fields)
		return false
	}
	return true
}

func sqsFields(msg sqstypes.Message, jobID string) map[string]any {
	return map[string]any{
		"job_id":         jobID,
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
}

func receiveCount(msg sqstypes.Message) int {
	if msg.Attributes == nil {
		return 0
	}
	raw := msg.Attributes["ApproximateReceiveCount"]
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}

func runAMQP(ctx context.Context, cfg config.Config, app *bootstrap.App) {
	if strings.TrimSpace(cfg.AMQPURL) == "" {
		log.Fatal("AMQP_URL is required")
	}
	concurrency := max(1, envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency))

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(cfg.AMQPQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("amqp queue declare: %v", err)
	}
	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.Fatalf("amqp qos: %v", err)
	}

	deliveries, err := ch.Consume(cfg.AMQPQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("amqp consume: %v", err)
	}

	log.Printf("worker started backend=amqp queue=%s concurrency=%d", cfg.AMQPQueue, concurrency)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range deliveries {
				handleAMQPDelivery(ctx, app.AnalysisService, d)
			}
		}()
	}

	<-ctx.Done()
	log.Printf("shutdown requested, draining deliveries")
	ch.Close()
	wg.Wait()
}

// handleAMQPDelivery acks in every outcome for the same reason the SQS path
// always deletes: failed jobs are terminal.
func handleAMQPDelivery(ctx context.Context, svc *analysis.Service, d amqp.Delivery) {
	if err := workerproc.HandleMessage(ctx, svc, string(d.Body)); err != nil {
		telemetry.Error("worker.analysis.failed", map[string]any{
			"error": err.Error(),
		})
	}
	if err := d.Ack(false); err != nil {
		telemetry.Error("worker.analysis.ack_failed", map[string]any{
			"error": err.Error(),
		})
	}
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
