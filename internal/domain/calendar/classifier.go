package calendar

import (
	"regexp"
	"sort"
	"strings"
)

// Metadata carries the scoring attributes resolved from an event's name
type Metadata struct {
	Category Category
	Polarity int // +1 or -1
	Weight   int // 1..10
}

type patternRule struct {
	re       *regexp.Regexp
	meta     Metadata
	priority int
}

// Pattern rules for generic categorization. Evaluated highest priority
// first; within a priority, declaration order. Sorted once at init.
var patternRules = []patternRule{
	// Interest rate
	{regexp.MustCompile(`(?i)\b(federal funds rate|interest rate decision)\b`), Metadata{CategoryInterestRate, +1, 10}, 100},
	{regexp.MustCompile(`(?i)\b(official bank rate|main refinancing rate)\b`), Metadata{CategoryInterestRate, +1, 10}, 100},
	{regexp.MustCompile(`(?i)\bfomc\s+(statement|press conference)\b`), Metadata{CategoryInterestRate, +1, 10}, 100},
	{regexp.MustCompile(`(?i)\bfomc\s+meeting\s+minutes\b`), Metadata{CategoryInterestRate, +1, 8}, 100},
	{regexp.MustCompile(`(?i)\becb\s+press\s+conference\b`), Metadata{CategoryInterestRate, +1, 9}, 100},

	// Employment
	{regexp.MustCompile(`(?i)\bnon-?farm\s+(employment|payroll)`), Metadata{CategoryEmployment, +1, 10}, 90},
	{regexp.MustCompile(`(?i)\bunemployment\s+rate\b`), Metadata{CategoryEmployment, -1, 10}, 90},
	{regexp.MustCompile(`(?i)\bunemployment\s+(claims|change)\b`), Metadata{CategoryEmployment, -1, 8}, 90},
	{regexp.MustCompile(`(?i)\b(initial|continuing)\s+jobless\s+claims\b`), Metadata{CategoryEmployment, -1, 8}, 90},
	{regexp.MustCompile(`(?i)\badp\s+.*employment`), Metadata{CategoryEmployment, +1, 7}, 90},
	{regexp.MustCompile(`(?i)\baverage\s+hourly\s+earnings\b`), Metadata{CategoryEmployment, +1, 7}, 90},
	{regexp.MustCompile(`(?i)\bemployment\s+change\b`), Metadata{CategoryEmployment, +1, 8}, 90},
	{regexp.MustCompile(`(?i)\bclaimant\s+count\b`), Metadata{CategoryEmployment, -1, 7}, 90},
	{regexp.MustCompile(`(?i)\bjob\s+(openings|cuts)\b`), Metadata{CategoryEmployment, +1, 6}, 90},
	{regexp.MustCompile(`(?i)\bjolts\b`), Metadata{CategoryEmployment, +1, 7}, 90},

	// Inflation
	{regexp.MustCompile(`(?i)\bcore\s+pce\b`), Metadata{CategoryInflation, +1, 10}, 85},
	{regexp.MustCompile(`(?i)\bpce\s+price\s+index\b`), Metadata{CategoryInflation, +1, 9}, 85},
	{regexp.MustCompile(`(?i)\bcore\s+cpi\b`), Metadata{CategoryInflation, +1, 10}, 85},
	{regexp.MustCompile(`(?i)\bcpi\b`), Metadata{CategoryInflation, +1, 9}, 85},
	{regexp.MustCompile(`(?i)\bcore\s+ppi\b`), Metadata{CategoryInflation, +1, 8}, 85},
	{regexp.MustCompile(`(?i)\bppi\b`), Metadata{CategoryInflation, +1, 7}, 85},
	{regexp.MustCompile(`(?i)\bhicp\b`), Metadata{CategoryInflation, +1, 9}, 85},
	{regexp.MustCompile(`(?i)\binflation\s+expectations?\b`), Metadata{CategoryInflation, +1, 5}, 85},

	// Growth
	{regexp.MustCompile(`(?i)\b(advance|preliminary|prelim|final)?\s*gdp\b`), Metadata{CategoryGrowth, +1, 9}, 80},
	{regexp.MustCompile(`(?i)\bretail\s+sales\b`), Metadata{CategoryGrowth, +1, 7}, 80},
	{regexp.MustCompile(`(?i)\bindustrial\s+production\b`), Metadata{CategoryGrowth, +1, 6}, 80},
	{regexp.MustCompile(`(?i)\bfactory\s+orders\b`), Metadata{CategoryGrowth, +1, 5}, 80},
	{regexp.MustCompile(`(?i)\bmanufacturing\s+(production|sales)\b`), Metadata{CategoryGrowth, +1, 5}, 80},
	{regexp.MustCompile(`(?i)\bwholesale\s+sales\b`), Metadata{CategoryGrowth, +1, 4}, 80},

	// PMI
	{regexp.MustCompile(`(?i)\bism\s+.*pmi\b`), Metadata{CategoryPMI, +1, 8}, 75},
	{regexp.MustCompile(`(?i)\bflash\s+.*pmi\b`), Metadata{CategoryPMI, +1, 8}, 75},
	{regexp.MustCompile(`(?i)\bpmi\b`), Metadata{CategoryPMI, +1, 6}, 75},
	{regexp.MustCompile(`(?i)\b(empire\s+state|philly\s+fed)\s+manufacturing\s+index\b`), Metadata{CategoryPMI, +1, 5}, 75},
	{regexp.MustCompile(`(?i)\bmanufacturing\s+index\b`), Metadata{CategoryPMI, +1, 5}, 75},

	// Housing
	{regexp.MustCompile(`(?i)\bbuilding\s+(permits?|approvals?|consents?)\b`), Metadata{CategoryHousing, +1, 4}, 70},
	{regexp.MustCompile(`(?i)\bhousing\s+starts\b`), Metadata{CategoryHousing, +1, 4}, 70},
	{regexp.MustCompile(`(?i)\b(existing|new|pending)\s+home\s+sales\b`), Metadata{CategoryHousing, +1, 4}, 70},
	{regexp.MustCompile(`(?i)\bhpi\b`), Metadata{CategoryHousing, +1, 3}, 70},
	{regexp.MustCompile(`(?i)\bhouse\s+price\b`), Metadata{CategoryHousing, +1, 3}, 70},
	{regexp.MustCompile(`(?i)\bconstruction\s+(spending|output)\b`), Metadata{CategoryHousing, +1, 3}, 70},
	{regexp.MustCompile(`(?i)\bmortgage\s+approvals?\b`), Metadata{CategoryHousing, +1, 3}, 70},

	// Sentiment
	{regexp.MustCompile(`(?i)\bconsumer\s+(confidence|sentiment)\b`), Metadata{CategorySentiment, +1, 5}, 65},
	{regexp.MustCompile(`(?i)\bbusiness\s+(confidence|sentiment|climate)\b`), Metadata{CategorySentiment, +1, 4}, 65},
	{regexp.MustCompile(`(?i)\binvestor\s+(confidence|sentiment)\b`), Metadata{CategorySentiment, +1, 4}, 65},
	{regexp.MustCompile(`(?i)\bzew\s+economic\s+sentiment\b`), Metadata{CategorySentiment, +1, 5}, 65},
	{regexp.MustCompile(`(?i)\bifo\s+business\s+climate\b`), Metadata{CategorySentiment, +1, 5}, 65},
	{regexp.MustCompile(`(?i)\bgfk\s+consumer\s+climate\b`), Metadata{CategorySentiment, +1, 4}, 65},
	{regexp.MustCompile(`(?i)\beconomic\s+optimism\b`), Metadata{CategorySentiment, +1, 4}, 65},
	{regexp.MustCompile(`(?i)\bsentiment\b`), Metadata{CategorySentiment, +1, 4}, 65},

	// Trade
	{regexp.MustCompile(`(?i)\btrade\s+balance\b`), Metadata{CategoryTrade, +1, 4}, 60},
	{regexp.MustCompile(`(?i)\bcurrent\s+account\b`), Metadata{CategoryTrade, +1, 4}, 60},
	{regexp.MustCompile(`(?i)\bgoods\s+trade\s+balance\b`), Metadata{CategoryTrade, +1, 3}, 60},
	{regexp.MustCompile(`(?i)\b(import|export)\s+prices?\b`), Metadata{CategoryTrade, +1, 3}, 60},

	// Low-priority catchalls
	{regexp.MustCompile(`(?i)\bbank\s+holiday\b`), Metadata{CategoryOther, +1, 1}, 10},
	{regexp.MustCompile(`(?i)\b(fomc|mpc|ecb)\s+member\s+.*speaks\b`), Metadata{CategoryOther, +1, 3}, 10},
	{regexp.MustCompile(`(?i)\bpresident\s+.*speaks\b`), Metadata{CategoryOther, +1, 4}, 10},
	{regexp.MustCompile(`(?i)\bbond\s+auction\b`), Metadata{CategoryOther, +1, 2}, 10},
}

func init() {
	// Stable sort keeps declaration order within one priority
	sort.SliceStable(patternRules, func(i, j int) bool {
		return patternRules[i].priority > patternRules[j].priority
	})
}

// Exact match table for events with known metadata, keyed by trimmed
// lower-cased name. Always wins over pattern rules.
var exactRules = map[string]Metadata{
	// Employment
	"non-farm employment change":     {CategoryEmployment, +1, 10},
	"nonfarm payrolls":               {CategoryEmployment, +1, 10},
	"unemployment rate":              {CategoryEmployment, -1, 10},
	"unemployment claims":            {CategoryEmployment, -1, 8},
	"initial jobless claims":         {CategoryEmployment, -1, 8},
	"continuing jobless claims":      {CategoryEmployment, -1, 6},
	"adp non-farm employment change": {CategoryEmployment, +1, 7},
	"adp nonfarm employment change":  {CategoryEmployment, +1, 7},
	"average hourly earnings m/m":    {CategoryEmployment, +1, 7},
	"average hourly earnings y/y":    {CategoryEmployment, +1, 7},
	"employment change":              {CategoryEmployment, +1, 8},
	"claimant count change":          {CategoryEmployment, -1, 7},

	// Inflation
	"cpi m/m":                  {CategoryInflation, +1, 10},
	"cpi y/y":                  {CategoryInflation, +1, 10},
	"core cpi m/m":             {CategoryInflation, +1, 10},
	"core cpi y/y":             {CategoryInflation, +1, 10},
	"ppi m/m":                  {CategoryInflation, +1, 8},
	"ppi y/y":                  {CategoryInflation, +1, 8},
	"core ppi m/m":             {CategoryInflation, +1, 8},
	"core ppi y/y":             {CategoryInflation, +1, 8},
	"pce price index m/m":      {CategoryInflation, +1, 9},
	"pce price index y/y":      {CategoryInflation, +1, 9},
	"core pce price index m/m": {CategoryInflation, +1, 10},
	"core pce price index y/y": {CategoryInflation, +1, 10},
	"hicp y/y":                 {CategoryInflation, +1, 9},
	"hicp m/m":                 {CategoryInflation, +1, 9},

	// Growth
	"gdp q/q":                   {CategoryGrowth, +1, 9},
	"gdp y/y":                   {CategoryGrowth, +1, 9},
	"advance gdp q/q":           {CategoryGrowth, +1, 10},
	"preliminary gdp q/q":       {CategoryGrowth, +1, 9},
	"final gdp q/q":             {CategoryGrowth, +1, 8},
	"gdp growth rate q/q":       {CategoryGrowth, +1, 9},
	"retail sales m/m":          {CategoryGrowth, +1, 8},
	"core retail sales m/m":     {CategoryGrowth, +1, 8},
	"industrial production m/m": {CategoryGrowth, +1, 6},
	"industrial production y/y": {CategoryGrowth, +1, 6},

	// Interest rates
	"federal funds rate":          {CategoryInterestRate, +1, 10},
	"interest rate decision":      {CategoryInterestRate, +1, 10},
	"official bank rate":          {CategoryInterestRate, +1, 10},
	"main refinancing rate":       {CategoryInterestRate, +1, 10},
	"deposit facility rate":       {CategoryInterestRate, +1, 10},
	"overnight rate":              {CategoryInterestRate, +1, 10},
	"cash rate":                   {CategoryInterestRate, +1, 10},
	"policy rate":                 {CategoryInterestRate, +1, 10},
	"fomc statement":              {CategoryInterestRate, +1, 10},
	"fomc meeting minutes":        {CategoryInterestRate, +1, 8},
	"fomc press conference":       {CategoryInterestRate, +1, 9},
	"ecb press conference":        {CategoryInterestRate, +1, 9},
	"boe monetary policy summary": {CategoryInterestRate, +1, 9},

	// PMI
	"manufacturing pmi":                {CategoryPMI, +1, 7},
	"services pmi":                     {CategoryPMI, +1, 7},
	"composite pmi":                    {CategoryPMI, +1, 7},
	"flash manufacturing pmi":          {CategoryPMI, +1, 8},
	"flash services pmi":               {CategoryPMI, +1, 8},
	"ism manufacturing pmi":            {CategoryPMI, +1, 8},
	"ism non-manufacturing pmi":        {CategoryPMI, +1, 8},
	"ism services pmi":                 {CategoryPMI, +1, 8},
	"chicago pmi":                      {CategoryPMI, +1, 5},
	"empire state manufacturing index": {CategoryPMI, +1, 5},
	"philly fed manufacturing index":   {CategoryPMI, +1, 5},

	// Housing
	"building permits":          {CategoryHousing, +1, 4},
	"housing starts":            {CategoryHousing, +1, 4},
	"existing home sales":       {CategoryHousing, +1, 4},
	"new home sales":            {CategoryHousing, +1, 4},
	"pending home sales m/m":    {CategoryHousing, +1, 3},
	"house price index m/m":     {CategoryHousing, +1, 3},
	"s&p/cs composite-20 hpi y/y": {CategoryHousing, +1, 3},
	"construction spending m/m": {CategoryHousing, +1, 3},
	"nationwide hpi m/m":        {CategoryHousing, +1, 3},

	// Sentiment
	"consumer confidence":                       {CategorySentiment, +1, 5},
	"cb consumer confidence":                    {CategorySentiment, +1, 6},
	"michigan consumer sentiment":               {CategorySentiment, +1, 5},
	"university of michigan consumer sentiment": {CategorySentiment, +1, 5},
	"zew economic sentiment":                    {CategorySentiment, +1, 5},
	"ifo business climate":                      {CategorySentiment, +1, 5},
	"gfk consumer climate":                      {CategorySentiment, +1, 4},
	"consumer confidence index":                 {CategorySentiment, +1, 5},
	"business confidence":                       {CategorySentiment, +1, 4},

	// Trade
	"trade balance":       {CategoryTrade, +1, 4},
	"current account":     {CategoryTrade, +1, 4},
	"current account q/q": {CategoryTrade, +1, 4},
	"goods trade balance": {CategoryTrade, +1, 3},
	"import prices m/m":   {CategoryTrade, -1, 3},
	"export prices m/m":   {CategoryTrade, +1, 3},
}

// Classify resolves scoring metadata for a display name. Resolution order:
// exact table, then pattern rules by priority, then the OTHER default.
func Classify(name string) Metadata {
	normalized := strings.ToLower(strings.TrimSpace(name))

	if meta, ok := exactRules[normalized]; ok {
		return meta
	}

	for _, rule := range patternRules {
		if rule.re.MatchString(name) {
			return rule.meta
		}
	}

	return Metadata{CategoryOther, +1, 1}
}
