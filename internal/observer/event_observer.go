package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// SegmentationEvent represents a lifecycle event in a matting job
type SegmentationEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	JobID          string                 `json:"job_id"`
	ImageURL       string                 `json:"image_url,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of segmentation event
type EventType string

const (
	// SegmentationStarted when a matting job begins
	SegmentationStarted EventType = "segmentation_started"
	// SegmentationCompleted when a matting job finishes successfully
	SegmentationCompleted EventType = "segmentation_completed"
	// SegmentationFailed when a matting job fails
	SegmentationFailed EventType = "segmentation_failed"
	// ImageFetched when the source image is successfully fetched
	ImageFetched EventType = "image_fetched"
	// ImageFetchFailed when the source image fetch fails
	ImageFetchFailed EventType = "image_fetch_failed"
	// MatteStored when the encoded matte is persisted
	MatteStored EventType = "matte_stored"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event SegmentationEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event SegmentationEvent)
}

// LoggingObserver logs segmentation events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{logger: logger}
}

// OnEvent handles segmentation events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event SegmentationEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"job_id":          event.JobID,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}
	if event.ImageURL != "" {
		fields["image_url"] = event.ImageURL
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case SegmentationStarted:
		o.logger.WithFields(fields).Info("Segmentation started")
	case SegmentationCompleted:
		o.logger.WithFields(fields).Info("Segmentation completed")
	case SegmentationFailed:
		o.logger.WithFields(fields).Error("Segmentation failed")
	case ImageFetched:
		o.logger.WithFields(fields).Debug("Image fetched successfully")
	case ImageFetchFailed:
		o.logger.WithFields(fields).Error("Image fetch failed")
	case MatteStored:
		o.logger.WithFields(fields).Info("Matte stored")
	default:
		o.logger.WithFields(fields).Info("Segmentation event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects counters from segmentation events
type MetricsObserver struct {
	mu                  sync.RWMutex
	totalJobs           int64
	successfulJobs      int64
	failedJobs          int64
	degenerateJobs      int64
	totalProcessingTime time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles segmentation events by updating counters
func (o *MetricsObserver) OnEvent(ctx context.Context, event SegmentationEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case SegmentationStarted:
		o.totalJobs++
	case SegmentationCompleted:
		o.successfulJobs++
		o.totalProcessingTime += event.ProcessingTime
		if degenerate, ok := event.Metadata["degenerate"].(bool); ok && degenerate {
			o.degenerateJobs++
		}
	case SegmentationFailed:
		o.failedJobs++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current counters
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	if o.successfulJobs > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.successfulJobs)
	}

	return map[string]interface{}{
		"total_jobs":            o.totalJobs,
		"successful_jobs":       o.successfulJobs,
		"failed_jobs":           o.failedJobs,
		"degenerate_jobs":       o.degenerateJobs,
		"total_processing_time": o.totalProcessingTime,
		"avg_processing_time":   avgProcessingTime,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event
func (p *EventPublisher) NotifyObservers(ctx context.Context, event SegmentationEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
