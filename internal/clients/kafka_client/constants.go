package kafka_client

import "time"

const (
	KAFKA_TOPIC_ANALYSIS_REQUESTS = "analysis-requests" // posts waiting to be analyzed
	KAFKA_TOPIC_ANALYSIS_RESULTS  = "analysis-results"  // batched analysis records, ready to store
)

const (
	POLL_TIMEOUT = time.Second
	MAX_RETRIES  = 5
	RETRY_DELAY  = 2 * time.Second
)
