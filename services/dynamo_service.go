package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"card_game_server/models"
	"card_game_server/utils"
	"card_game_server/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxTransactWriteSize = 100
	maxBatchGetSize      = 100
)

// DynamoAPI is the subset of the DynamoDB client used by DynamoService
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoService stores cards in a DynamoDB table keyed on the string "_id"
type DynamoService struct {
	Client    DynamoAPI
	TableName string
}

// LoadAWSConfig loads the shared AWS configuration, overriding the region when set
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// InitializeDynamoDBClient initializes the DynamoDB client
func InitializeDynamoDBClient(cfg aws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg)
}

func (ds *DynamoService) InsertOne(ctx context.Context, card models.Card) error {
	item, err := marshalCard(card)
	if err != nil {
		return err
	}

	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                &ds.TableName,
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": models.IDField},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("%w: %s", ErrDuplicateID, card.ID())
		}
		return fmt.Errorf("failed to put item in table '%s': %w", ds.TableName, err)
	}
	return nil
}

// InsertMany marshals every card up front so a bad document fails the whole
// batch before anything is written. Ids repeated inside the batch are
// rejected here; ids already in the table fail the conditional put.
func (ds *DynamoService) InsertMany(ctx context.Context, cards []models.Card) error {
	seen := make(map[string]struct{}, len(cards))
	items := make([]types.TransactWriteItem, 0, len(cards))
	for _, card := range cards {
		id := card.ID()
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}

		item, err := marshalCard(card)
		if err != nil {
			return err
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:                &ds.TableName,
				Item:                     item,
				ConditionExpression:      aws.String("attribute_not_exists(#id)"),
				ExpressionAttributeNames: map[string]string{"#id": models.IDField},
			},
		})
	}
	return ds.TransactPutItems(ctx, items)
}

// TransactPutItems writes items in transactions of up to 100. Each chunk is
// all-or-nothing.
func (ds *DynamoService) TransactPutItems(ctx context.Context, items []types.TransactWriteItem) error {
	for i := 0; i < len(items); i += maxTransactWriteSize {
		end := min(i+maxTransactWriteSize, len(items))

		_, err := ds.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: items[i:end],
		})
		if err != nil {
			if id, ok := conditionFailedID(err, items[i:end]); ok {
				return fmt.Errorf("%w: %s", ErrDuplicateID, id)
			}
			return fmt.Errorf("failed to write items to table '%s': %w", ds.TableName, err)
		}
	}

	logger.Debugf("Wrote %d items to table '%s'", len(items), ds.TableName)
	return nil
}

// conditionFailedID reports the id of the first put that failed its
// attribute_not_exists condition.
func conditionFailedID(err error, items []types.TransactWriteItem) (string, bool) {
	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		return "", false
	}
	for i, reason := range canceled.CancellationReasons {
		if aws.ToString(reason.Code) != "ConditionalCheckFailed" {
			continue
		}
		if i < len(items) && items[i].Put != nil {
			return utils.ExtractString(items[i].Put.Item, models.IDField), true
		}
		return "", true
	}
	return "", false
}

// FindAll scans the whole table, following LastEvaluatedKey
func (ds *DynamoService) FindAll(ctx context.Context) ([]models.Card, error) {
	cards := []models.Card{}
	var startKey map[string]types.AttributeValue
	for {
		output, err := ds.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &ds.TableName,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan table '%s': %w", ds.TableName, err)
		}

		for _, item := range output.Items {
			card, err := unmarshalCard(item)
			if err != nil {
				return nil, err
			}
			cards = append(cards, card)
		}

		if len(output.LastEvaluatedKey) == 0 {
			return cards, nil
		}
		startKey = output.LastEvaluatedKey
	}
}

// FindByIDs fetches cards with BatchGetItem and returns them in request order
func (ds *DynamoService) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Card, error) {
	found := map[string]models.Card{}
	for i := 0; i < len(ids); i += maxBatchGetSize {
		end := min(i+maxBatchGetSize, len(ids))

		keys := make([]map[string]types.AttributeValue, 0, end-i)
		for _, id := range ids[i:end] {
			keys = append(keys, utils.StringKey(models.IDField, id.Hex()))
		}

		output, err := ds.Client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				ds.TableName: {Keys: keys},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to batch get items from table '%s': %w", ds.TableName, err)
		}
		if unprocessed, ok := output.UnprocessedKeys[ds.TableName]; ok && len(unprocessed.Keys) > 0 {
			return nil, fmt.Errorf("batch get from table '%s' left %d keys unprocessed", ds.TableName, len(unprocessed.Keys))
		}

		for _, item := range output.Responses[ds.TableName] {
			card, err := unmarshalCard(item)
			if err != nil {
				return nil, err
			}
			found[utils.ExtractString(item, models.IDField)] = card
		}
	}

	cards := make([]models.Card, 0, len(found))
	for _, id := range ids {
		if card, ok := found[id.Hex()]; ok {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// UpdateByIDs issues one conditional UpdateItem per id. A failed
// attribute_exists condition means the card does not exist.
func (ds *DynamoService) UpdateByIDs(ctx context.Context, ids []primitive.ObjectID, fields map[string]interface{}) (int64, error) {
	updateExpression, names, values, err := buildSetExpression(fields)
	if err != nil {
		return 0, err
	}

	var matched int64
	for _, id := range ids {
		_, err := ds.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 &ds.TableName,
			Key:                       utils.StringKey(models.IDField, id.Hex()),
			UpdateExpression:          &updateExpression,
			ConditionExpression:       aws.String("attribute_exists(#id)"),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		})
		if err != nil {
			var condErr *types.ConditionalCheckFailedException
			if errors.As(err, &condErr) {
				continue
			}
			return matched, fmt.Errorf("failed to update item in table '%s': %w", ds.TableName, err)
		}
		matched++
	}
	return matched, nil
}

// DeleteByIDs deletes each id and counts the ones that returned old attributes
func (ds *DynamoService) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	var deleted int64
	for _, id := range ids {
		output, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName:    &ds.TableName,
			Key:          utils.StringKey(models.IDField, id.Hex()),
			ReturnValues: types.ReturnValueAllOld,
		})
		if err != nil {
			return deleted, fmt.Errorf("failed to delete item from table '%s': %w", ds.TableName, err)
		}
		if len(output.Attributes) > 0 {
			deleted++
		}
	}
	return deleted, nil
}

func (ds *DynamoService) Ping(ctx context.Context) error {
	_, err := ds.Client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: &ds.TableName})
	if err != nil {
		return fmt.Errorf("failed to describe table '%s': %w", ds.TableName, err)
	}
	return nil
}

func (ds *DynamoService) Close(context.Context) error { return nil }

// buildSetExpression turns fields into "SET #f0 = :v0, ..." with placeholders
// for every name, since card fields may collide with reserved words.
func buildSetExpression(fields map[string]interface{}) (string, map[string]string, map[string]types.AttributeValue, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := map[string]string{"#id": models.IDField}
	values := make(map[string]types.AttributeValue, len(keys))
	assignments := make([]string, 0, len(keys))
	for i, k := range keys {
		namePlaceholder := fmt.Sprintf("#f%d", i)
		valuePlaceholder := fmt.Sprintf(":v%d", i)

		av, err := attributevalue.Marshal(fields[k])
		if err != nil {
			return "", nil, nil, fmt.Errorf("failed to marshal field '%s': %w", k, err)
		}
		names[namePlaceholder] = k
		values[valuePlaceholder] = av
		assignments = append(assignments, namePlaceholder+" = "+valuePlaceholder)
	}

	return "SET " + strings.Join(assignments, ", "), names, values, nil
}

func marshalCard(card models.Card) (map[string]types.AttributeValue, error) {
	doc := map[string]interface{}(card.Clone())
	doc[models.IDField] = card.ID()

	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal card %s: %w", card.ID(), err)
	}
	return item, nil
}

// unmarshalCard keeps numbers exact: N values decode as attributevalue.Number
// and are then narrowed to int64 or float64.
func unmarshalCard(item map[string]types.AttributeValue) (models.Card, error) {
	decoder := attributevalue.NewDecoder(func(o *attributevalue.DecoderOptions) {
		o.UseNumber = true
	})

	var doc map[string]interface{}
	if err := decoder.Decode(&types.AttributeValueMemberM{Value: item}, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal card: %w", err)
	}
	models.NormalizeNumbers(doc)
	return models.Card(doc), nil
}
