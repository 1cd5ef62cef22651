package db

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/postlens/internal/models"
)

const (
	DYNAMODB_BATCH_SIZE  = 25
	DYNAMODB_MAX_RETRIES = 3

	// Recent reads at most this many items before it stops scanning.
	DYNAMODB_MAX_SCAN_ITEMS = 10000
)

// DynamoAPI is the subset of *dynamodb.Client the store uses.
type DynamoAPI interface {
	dynamodb.ScanAPIClient
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

type DynamoStore struct {
	client  DynamoAPI
	table   string
	ttl     time.Duration
	backoff time.Duration
	maxScan int
}

func NewDynamoStore(client DynamoAPI, table string, ttl time.Duration) *DynamoStore {
	return &DynamoStore{
		client:  client,
		table:   table,
		ttl:     ttl,
		backoff: 500 * time.Millisecond,
		maxScan: DYNAMODB_MAX_SCAN_ITEMS,
	}
}

// RecordToDynamoDBItem adds the numeric created_at_unix sort attribute and,
// when ttl > 0, the expires_at TTL attribute.
func RecordToDynamoDBItem(record models.AnalysisRecord, ttl time.Duration) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Failed to marshal record %s: %w", record.ID, err)
	}

	item["created_at_unix"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(record.CreatedAt.Unix(), 10)}
	if ttl > 0 {
		item["expires_at"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(record.CreatedAt.Add(ttl).Unix(), 10)}
	}
	return item, nil
}

func (s *DynamoStore) Save(ctx context.Context, records ...models.AnalysisRecord) error {
	for i := 0; i < len(records); i += DYNAMODB_BATCH_SIZE {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
		}

		end := i + DYNAMODB_BATCH_SIZE
		if end > len(records) {
			end = len(records)
		}

		writeRequests := make([]types.WriteRequest, 0, end-i)
		for _, record := range records[i:end] {
			item, err := RecordToDynamoDBItem(record, s.ttl)
			if err != nil {
				return err
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := s.batchWrite(ctx, writeRequests); err != nil {
			return err
		}
	}

	slog.Info("[DynamoDB] Successfully stored analyses", slog.Int("count", len(records)))
	return nil
}

func (s *DynamoStore) batchWrite(ctx context.Context, writeRequests []types.WriteRequest) error {
	out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{
			s.table: writeRequests,
		},
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to batch write analyses: %w", err)
	}

	retryCount := 0
	backoff := s.backoff
	for len(out.UnprocessedItems) > 0 && retryCount < DYNAMODB_MAX_RETRIES {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2

		slog.Warn("[DynamoDB] Retrying unprocessed items...",
			slog.Int("attempt", retryCount+1),
			slog.Int("remaining", len(out.UnprocessedItems[s.table])))

		out, err = s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Retry error: %w", err)
		}
		retryCount++
	}

	if remaining := len(out.UnprocessedItems[s.table]); remaining > 0 {
		return fmt.Errorf("[DynamoDB] %d items were not written after %d retries", remaining, DYNAMODB_MAX_RETRIES)
	}
	return nil
}

func (s *DynamoStore) Get(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Failed to get analysis %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var record models.AnalysisRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("[DynamoDB] Unable to unmarshal analysis %s: %w", id, err)
	}
	return &record, nil
}

// Recent scans the table and sorts client side, keeping only the newest limit
// records between pages. History tables are TTL bounded, and the scan stops
// after maxScan items, so on a larger table the result is the newest records
// among those read rather than the whole table.
func (s *DynamoStore) Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	limit = normalizeLimit(limit)

	var records []models.AnalysisRecord
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})

	scanned := 0
	for paginator.HasMorePages() {
		if scanned >= s.maxScan {
			slog.Warn("[DynamoDB] Scan bound reached, recent history may be incomplete",
				slog.String("table", s.table),
				slog.Int("scanned", scanned),
				slog.Int("max_scan", s.maxScan))
			break
		}

		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] Scan for analyses failed: %w", err)
		}
		var page []models.AnalysisRecord
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			slog.Error("[DynamoDB] Unable to unmarshal current analyses page", slog.String("error", err.Error()))
			return nil, err
		}
		scanned += len(page)
		records = newestFirst(append(records, page...), limit)
	}

	slog.Debug("[DynamoDB] Scanned analyses for recent history",
		slog.String("table", s.table),
		slog.Int("scanned", scanned),
		slog.Int("returned", len(records)))
	if records == nil {
		records = []models.AnalysisRecord{}
	}
	return records, nil
}

func newestFirst(records []models.AnalysisRecord, limit int) []models.AnalysisRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records
}

func (s *DynamoStore) Close() error {
	return nil
}
