package aggregate

import "strings"

// Bucket is one of the fixed activity categories used for charting.
type Bucket string

const (
	BucketReportability     Bucket = "Reportability"
	BucketRegulatoryReport  Bucket = "Regulatory Report"
	BucketRegulatoryInquiry Bucket = "Regulatory Inquiry"
	BucketProductAnalysis   Bucket = "Product Analysis"
	BucketInvestigation     Bucket = "Investigation"
	BucketCommunication     Bucket = "Communication"
	BucketTask              Bucket = "Task"
	BucketOther             Bucket = "PLI Level"
)

// Single source of truth for the section taxonomy. Prefixes are tried in
// order, first match wins.
var bucketPrefixes = []struct {
	prefix string
	bucket Bucket
}{
	{"reportability", BucketReportability},
	{"regulatory report", BucketRegulatoryReport},
	{"regulatory inquiry", BucketRegulatoryInquiry},
	{"product analysis", BucketProductAnalysis},
	{"investigation", BucketInvestigation},
	{"communication", BucketCommunication},
	{"task", BucketTask},
}

// Classify maps a free-text section label onto the fixed bucket taxonomy.
// It is total: any input, including blank, yields a bucket.
func Classify(section string) Bucket {
	normalized := strings.ToLower(strings.TrimSpace(section))
	for _, entry := range bucketPrefixes {
		if strings.HasPrefix(normalized, entry.prefix) {
			return entry.bucket
		}
	}
	return BucketOther
}
