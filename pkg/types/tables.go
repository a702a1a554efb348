package types

import "fmt"

type TableName string

func (s TableName) Name() string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "swgwatch_"

const (
	TABLE_RESOURCE        = TableName("resources")
	TABLE_RESOURCE_CLASS  = TableName("resource_classes")
	TABLE_TREE_METADATA   = TableName("resource_tree_metadata")
	TABLE_CACHE_TIMESTAMP = TableName("cache_timestamps")
	TABLE_MAIL            = TableName("mails")
	TABLE_SALE            = TableName("sales")
)
