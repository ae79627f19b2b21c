package sessions

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricSessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qa_sessions_created_total",
		Help: "Total Q&A sessions created",
	})

	metricSessionsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qa_sessions_deleted_total",
		Help: "Total Q&A sessions deleted",
	})

	metricQuestionsAsked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qa_questions_asked_total",
		Help: "Total questions submitted",
	})

	metricUpvotesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qa_upvotes_recorded_total",
		Help: "Total upvotes recorded (repeat votes excluded)",
	})
)
