package testkit

// 常用的预设响应体，字段与真实接口一致

const IntradayMSFT1min = `{
    "Meta Data": {
        "1. Information": "Intraday (1min) open, high, low, close prices and volume",
        "2. Symbol": "MSFT",
        "3. Last Refreshed": "2021-01-01 09:32:00",
        "4. Interval": "1min",
        "5. Output Size": "Compact",
        "6. Time Zone": "US/Eastern"
    },
    "Time Series (1min)": {
        "2021-01-01 09:32:00": {
            "1. open": "222.5300",
            "2. high": "222.6000",
            "3. low": "222.4000",
            "4. close": "222.4200",
            "5. volume": "19800"
        },
        "2021-01-01 09:31:00": {
            "1. open": "222.4000",
            "2. high": "222.5500",
            "3. low": "222.3500",
            "4. close": "222.5300",
            "5. volume": "21500"
        },
        "2021-01-01 09:30:00": {
            "1. open": "222.0000",
            "2. high": "222.4500",
            "3. low": "221.9000",
            "4. close": "222.4000",
            "5. volume": "45210"
        }
    }
}`

const DailyMSFTCSV = "timestamp,open,high,low,close,volume\r\n" +
	"2021-01-05,217.26,218.52,215.70,217.90,23823000\r\n" +
	"2021-01-04,222.53,223.00,214.81,217.69,37130100\r\n"

const NoteBody = `{
    "Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute and 500 calls per day."
}`

const InformationBody = `{
    "Information": "The **demo** API key is for demo purposes only."
}`

const ErrorMessageBody = `{
    "Error Message": "Invalid API call. Please retry or visit the documentation (https://www.alphavantage.co/documentation/) for TIME_SERIES_INTRADAY."
}`

const GlobalQuoteMSFT = `{
    "Global Quote": {
        "01. symbol": "MSFT",
        "02. open": "222.5300",
        "05. price": "217.6900",
        "07. latest trading day": "2021-01-04",
        "10. change percent": "-1.3260%"
    }
}`

const SectorBody = `{
    "Meta Data": {
        "Information": "US Sector Performance (realtime & historical)",
        "Last Refreshed": "2021-01-04 16:00:00 US/Eastern"
    },
    "Rank A: Real-Time Performance": {"Energy": "3.45%", "Utilities": "-0.52%"},
    "Rank B: 1 Day Performance": {"Energy": "2.10%", "Utilities": "0.30%"},
    "Rank C: 5 Day Performance": {"Energy": "4.00%", "Utilities": "1.00%"},
    "Rank D: 1 Month Performance": {"Energy": "8.00%", "Utilities": "-2.00%"},
    "Rank E: 3 Month Performance": {"Energy": "12.50%", "Utilities": "3.25%"},
    "Rank F: Year-to-Date (YTD) Performance": {"Energy": "1.00%", "Utilities": "0.50%"},
    "Rank G: 1 Year Performance": {"Energy": "-30.00%", "Utilities": "-1.00%"},
    "Rank H: 3 Year Performance": {"Energy": "-40.00%", "Utilities": "10.00%"},
    "Rank I: 5 Year Performance": {"Energy": "-35.00%", "Utilities": "20.00%"},
    "Rank J: 10 Year Performance": {"Energy": "-25.00%", "Utilities": "60.00%"}
}`

const SymbolSearchBody = `{
    "bestMatches": [
        {"1. symbol": "TSCO.LON", "2. name": "Tesco PLC", "9. matchScore": "0.7273"},
        {"1. symbol": "TSCDF", "2. name": "Tesco plc", "3. type": "Equity", "9. matchScore": "0.7143"}
    ]
}`
