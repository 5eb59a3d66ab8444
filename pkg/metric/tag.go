package metric

import "strings"

const (
	TagEnv            = "env"
	TagService        = "service"
	TagPath           = "path"
	TagMethod         = "method"
	TagHttpStatusCode = "http_status_code"
	TagStage          = "stage"
	TagReason         = "reason"
	TagErrorKind      = "error_kind"
	TagModelType      = "model_type"
	TagSource         = "source"
)

type Tag struct {
	Name  string
	Value string
}

func NewTag(name, value string) Tag {
	return Tag{
		Name:  name,
		Value: value,
	}
}

// BuildTag builds statsd tags from the given name/value pairs
func BuildTag(tags ...Tag) []string {
	allTags := make([]string, 0, len(tags))
	for _, tag := range tags {
		allTags = append(allTags, TagAsString(tag.Name, tag.Value))
	}
	return allTags
}

// tagValueReplacer strips characters DogStatsD reads as tag or packet separators.
// "/" is kept so URL paths stay readable.
var tagValueReplacer = strings.NewReplacer(":", "_", " ", "_", "\\", "_", ",", "_", "|", "_", "@", "_", "#", "_")

func normalizeTagValue(value string) string {
	return tagValueReplacer.Replace(value)
}

func TagAsString(name string, value string) string {
	return name + ":" + normalizeTagValue(value)
}
