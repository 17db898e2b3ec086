package resolver

// dictEntry is one row of a static resolution dictionary: a canonical id,
// its human-facing name, the category it resolves into, every alias a
// caller might type for it (already uppercase-trimmed), and any metadata
// the category cares about.
type dictEntry struct {
	CanonicalID string
	DisplayName string
	Category    Category
	Aliases     []string
	Metadata    Metadata
}

// tickerDict covers large-cap US equities the engine's market category
// needs to recognize. Not exhaustive — unrecognized symbols fall through
// to not_found, which is the correct behavior for a static dictionary.
var tickerDict = []dictEntry{
	{CanonicalID: "AAPL", DisplayName: "Apple Inc.", Category: CategoryMarket,
		Aliases: []string{"AAPL", "APPLE", "APPLE INC"}, Metadata: Metadata{Exchange: "NASDAQ"}},
	{CanonicalID: "MSFT", DisplayName: "Microsoft Corporation", Category: CategoryMarket,
		Aliases: []string{"MSFT", "MICROSOFT"}, Metadata: Metadata{Exchange: "NASDAQ"}},
	{CanonicalID: "GOOGL", DisplayName: "Alphabet Inc.", Category: CategoryMarket,
		Aliases: []string{"GOOGL", "GOOG", "GOOGLE", "ALPHABET"}, Metadata: Metadata{Exchange: "NASDAQ"}},
	{CanonicalID: "AMZN", DisplayName: "Amazon.com, Inc.", Category: CategoryMarket,
		Aliases: []string{"AMZN", "AMAZON"}, Metadata: Metadata{Exchange: "NASDAQ"}},
	{CanonicalID: "TSLA", DisplayName: "Tesla, Inc.", Category: CategoryMarket,
		Aliases: []string{"TSLA", "TESLA"}, Metadata: Metadata{Exchange: "NASDAQ"}},
	{CanonicalID: "NVDA", DisplayName: "NVIDIA Corporation", Category: CategoryMarket,
		Aliases: []string{"NVDA", "NVIDIA"}, Metadata: Metadata{Exchange: "NASDAQ"}},
	{CanonicalID: "META", DisplayName: "Meta Platforms, Inc.", Category: CategoryMarket,
		Aliases: []string{"META", "FACEBOOK", "FB"}, Metadata: Metadata{Exchange: "NASDAQ"}},
}

var cryptoDict = []dictEntry{
	{CanonicalID: "BTC", DisplayName: "Bitcoin", Category: CategoryCrypto,
		Aliases: []string{"BTC", "BITCOIN", "XBT"}},
	{CanonicalID: "ETH", DisplayName: "Ethereum", Category: CategoryCrypto,
		Aliases: []string{"ETH", "ETHEREUM", "ETHER"}},
	{CanonicalID: "SOL", DisplayName: "Solana", Category: CategoryCrypto,
		Aliases: []string{"SOL", "SOLANA"}},
	{CanonicalID: "DOGE", DisplayName: "Dogecoin", Category: CategoryCrypto,
		Aliases: []string{"DOGE", "DOGECOIN"}},
	{CanonicalID: "USDT", DisplayName: "Tether", Category: CategoryCrypto,
		Aliases: []string{"USDT", "TETHER"}},
	{CanonicalID: "XRP", DisplayName: "XRP", Category: CategoryCrypto,
		Aliases: []string{"XRP", "RIPPLE"}},
}

// currencyDict backs both bare currency resolution and currency-pair
// name-form parsing ("euro to dollar").
var currencyDict = []dictEntry{
	{CanonicalID: "USD", DisplayName: "US Dollar", Category: CategoryFX,
		Aliases: []string{"USD", "DOLLAR", "DOLLARS", "US DOLLAR"}, Metadata: Metadata{CurrencyCode: "USD"}},
	{CanonicalID: "EUR", DisplayName: "Euro", Category: CategoryFX,
		Aliases: []string{"EUR", "EURO", "EUROS"}, Metadata: Metadata{CurrencyCode: "EUR"}},
	{CanonicalID: "GBP", DisplayName: "British Pound", Category: CategoryFX,
		Aliases: []string{"GBP", "POUND", "POUNDS", "STERLING", "BRITISH POUND"}, Metadata: Metadata{CurrencyCode: "GBP"}},
	{CanonicalID: "JPY", DisplayName: "Japanese Yen", Category: CategoryFX,
		Aliases: []string{"JPY", "YEN", "JAPANESE YEN"}, Metadata: Metadata{CurrencyCode: "JPY"}},
	{CanonicalID: "CHF", DisplayName: "Swiss Franc", Category: CategoryFX,
		Aliases: []string{"CHF", "FRANC", "SWISS FRANC"}, Metadata: Metadata{CurrencyCode: "CHF"}},
	{CanonicalID: "CAD", DisplayName: "Canadian Dollar", Category: CategoryFX,
		Aliases: []string{"CAD", "CANADIAN DOLLAR", "LOONIE"}, Metadata: Metadata{CurrencyCode: "CAD"}},
	{CanonicalID: "AUD", DisplayName: "Australian Dollar", Category: CategoryFX,
		Aliases: []string{"AUD", "AUSSIE DOLLAR", "AUSTRALIAN DOLLAR"}, Metadata: Metadata{CurrencyCode: "AUD"}},
}

var locationDict = []dictEntry{
	{CanonicalID: "NEW_YORK_US", DisplayName: "New York, US", Category: CategoryWeather,
		Aliases: []string{"NEW YORK", "NYC", "NEW YORK CITY"}, Metadata: Metadata{Country: "US", TimezoneID: "America/New_York"}},
	{CanonicalID: "LONDON_GB", DisplayName: "London, GB", Category: CategoryWeather,
		Aliases: []string{"LONDON"}, Metadata: Metadata{Country: "GB", TimezoneID: "Europe/London"}},
	{CanonicalID: "TOKYO_JP", DisplayName: "Tokyo, JP", Category: CategoryWeather,
		Aliases: []string{"TOKYO"}, Metadata: Metadata{Country: "JP", TimezoneID: "Asia/Tokyo"}},
	{CanonicalID: "PARIS_FR", DisplayName: "Paris, FR", Category: CategoryWeather,
		Aliases: []string{"PARIS"}, Metadata: Metadata{Country: "FR", TimezoneID: "Europe/Paris"}},
	{CanonicalID: "SYDNEY_AU", DisplayName: "Sydney, AU", Category: CategoryWeather,
		Aliases: []string{"SYDNEY"}, Metadata: Metadata{Country: "AU", TimezoneID: "Australia/Sydney"}},
	{CanonicalID: "SAN_FRANCISCO_US", DisplayName: "San Francisco, US", Category: CategoryWeather,
		Aliases: []string{"SAN FRANCISCO", "SF"}, Metadata: Metadata{Country: "US", TimezoneID: "America/Los_Angeles"}},
	{CanonicalID: "BERLIN_DE", DisplayName: "Berlin, DE", Category: CategoryWeather,
		Aliases: []string{"BERLIN"}, Metadata: Metadata{Country: "DE", TimezoneID: "Europe/Berlin"}},
}

var timezoneDict = []dictEntry{
	{CanonicalID: "America/New_York", DisplayName: "Eastern Time", Category: CategoryTime,
		Aliases: []string{"AMERICA/NEW_YORK", "EASTERN", "ET", "EST", "EDT"}, Metadata: Metadata{TimezoneID: "America/New_York"}},
	{CanonicalID: "America/Los_Angeles", DisplayName: "Pacific Time", Category: CategoryTime,
		Aliases: []string{"AMERICA/LOS_ANGELES", "PACIFIC", "PT", "PST", "PDT"}, Metadata: Metadata{TimezoneID: "America/Los_Angeles"}},
	{CanonicalID: "America/Chicago", DisplayName: "Central Time", Category: CategoryTime,
		Aliases: []string{"AMERICA/CHICAGO", "CENTRAL", "CT", "CST", "CDT"}, Metadata: Metadata{TimezoneID: "America/Chicago"}},
	{CanonicalID: "Europe/London", DisplayName: "UK Time", Category: CategoryTime,
		Aliases: []string{"EUROPE/LONDON", "UK", "GMT", "BST"}, Metadata: Metadata{TimezoneID: "Europe/London"}},
	{CanonicalID: "Europe/Paris", DisplayName: "Central European Time", Category: CategoryTime,
		Aliases: []string{"EUROPE/PARIS", "CET", "CEST"}, Metadata: Metadata{TimezoneID: "Europe/Paris"}},
	{CanonicalID: "Asia/Tokyo", DisplayName: "Japan Standard Time", Category: CategoryTime,
		Aliases: []string{"ASIA/TOKYO", "JST"}, Metadata: Metadata{TimezoneID: "Asia/Tokyo"}},
	{CanonicalID: "UTC", DisplayName: "Coordinated Universal Time", Category: CategoryTime,
		Aliases: []string{"UTC", "Z", "ZULU"}, Metadata: Metadata{TimezoneID: "UTC"}},
}

var indexDict = []dictEntry{
	{CanonicalID: "SPX", DisplayName: "S&P 500", Category: CategoryMarket,
		Aliases: []string{"SPX", "S&P 500", "S&P500", "SP500", "SNP500"}, Metadata: Metadata{Exchange: "CBOE"}},
	{CanonicalID: "DJI", DisplayName: "Dow Jones Industrial Average", Category: CategoryMarket,
		Aliases: []string{"DJI", "DOW JONES", "DOW", "DJIA"}, Metadata: Metadata{Exchange: "NYSE"}},
	{CanonicalID: "IXIC", DisplayName: "Nasdaq Composite", Category: CategoryMarket,
		Aliases: []string{"IXIC", "NASDAQ COMPOSITE", "NASDAQ"}, Metadata: Metadata{Exchange: "NASDAQ"}},
	{CanonicalID: "FTSE", DisplayName: "FTSE 100", Category: CategoryMarket,
		Aliases: []string{"FTSE", "FTSE 100", "FTSE100"}, Metadata: Metadata{Exchange: "LSE"}},
	{CanonicalID: "N225", DisplayName: "Nikkei 225", Category: CategoryMarket,
		Aliases: []string{"N225", "NIKKEI", "NIKKEI 225"}, Metadata: Metadata{Exchange: "TSE"}},
}

var commodityDict = []dictEntry{
	{CanonicalID: "XAU", DisplayName: "Gold", Category: CategoryMarket,
		Aliases: []string{"XAU", "GOLD"}},
	{CanonicalID: "XAG", DisplayName: "Silver", Category: CategoryMarket,
		Aliases: []string{"XAG", "SILVER"}},
	{CanonicalID: "WTI", DisplayName: "Crude Oil (WTI)", Category: CategoryMarket,
		Aliases: []string{"WTI", "CRUDE OIL", "OIL"}},
	{CanonicalID: "NG", DisplayName: "Natural Gas", Category: CategoryMarket,
		Aliases: []string{"NG", "NATURAL GAS", "NATGAS"}},
	{CanonicalID: "HG", DisplayName: "Copper", Category: CategoryMarket,
		Aliases: []string{"HG", "COPPER"}},
}

// dictionaryFor returns the static table backing a given EntityType, or
// nil for types resolved procedurally (currency_pair).
func dictionaryFor(t EntityType) []dictEntry {
	switch t {
	case TypeTicker:
		return tickerDict
	case TypeCrypto:
		return cryptoDict
	case TypeCurrency:
		return currencyDict
	case TypeLocation:
		return locationDict
	case TypeTimezone:
		return timezoneDict
	case TypeIndex:
		return indexDict
	case TypeCommodity:
		return commodityDict
	default:
		return nil
	}
}
