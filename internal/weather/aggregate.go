package weather

import (
	"fmt"
	"math"
	"time"
)

// NASA POWER parameter names.
const (
	ParamTemperature    = "T2M"
	ParamTemperatureMax = "T2M_MAX"
	ParamTemperatureMin = "T2M_MIN"
	ParamHumidity       = "RH2M"
	ParamPrecipitation  = "PRECTOTCORR"
	ParamWindSpeed      = "WS2M"
	ParamPressure       = "PS"
	ParamUVIndex        = "ALLSKY_SFC_UV_INDEX"
	ParamDewPoint       = "T2MDEW"
)

// NowLabel replaces the time label of the most recent hourly record.
const NowLabel = "Now"

// Visibility is reported as a fixed 10 miles; the reanalysis data has no
// visibility parameter.
const defaultVisibility = 10

var (
	currentParameters = []string{
		ParamTemperature, ParamTemperatureMax, ParamTemperatureMin, ParamHumidity,
		ParamPrecipitation, ParamWindSpeed, ParamPressure, ParamUVIndex, ParamDewPoint,
	}
	hourlyParameters = []string{
		ParamTemperature, ParamHumidity, ParamWindSpeed, ParamPressure,
		ParamPrecipitation, ParamUVIndex, ParamDewPoint,
	}
	trendParameters = []string{
		ParamTemperatureMax, ParamTemperatureMin, ParamHumidity, ParamPrecipitation, ParamWindSpeed,
	}
	historicalParameters = []string{ParamTemperature, ParamPrecipitation, ParamHumidity}
)

// BuildHourly turns an hourly parameter set into user-facing records. Hours
// without a temperature reading are dropped, only the last `hours` records are
// kept (all of them when hours <= 0) and the final one is labelled "Now".
func BuildHourly(params ParameterSet, hours int, sentinels Sentinels) []HourlyRecord {
	var (
		temp     = params.Series(ParamTemperature)
		precip   = params.Series(ParamPrecipitation)
		humidity = params.Series(ParamHumidity)
		wind     = params.Series(ParamWindSpeed)
		pressure = params.Series(ParamPressure)
		uv       = params.Series(ParamUVIndex)
		dew      = params.Series(ParamDewPoint)
	)

	rows := make([]HourlyRecord, 0, len(temp))
	for _, key := range unionKeys(temp, precip) {
		if sentinels.Missing(temp[key]) {
			continue
		}
		tempC := *temp[key]

		rh := ClampHumidity(sentinels.Or(humidity[key], 60))
		windMs := NonNegative(sentinels.Or(wind[key], 0))
		rate := NonNegative(sentinels.Or(precip[key], 0))
		uvi := NonNegative(sentinels.Or(uv[key], 0))
		dewC := sentinels.Or(dew[key], tempC-2)

		var inHg *float64
		if p := pressure[key]; !sentinels.Missing(p) {
			inHg = ptr(KPaToInHg(*p))
		}

		cond := Classify(tempC, rh, rate, Hourly)
		rows = append(rows, HourlyRecord{
			Time:          hourLabel(key),
			Temperature:   tempC,
			Icon:          cond.Icon,
			Precipitation: Round(rate, 2),
			Humidity:      rh,
			Wind:          MsToMph(windMs),
			FeelsLike:     tempC,
			Description:   cond.Label,
			Pressure:      inHg,
			UVIndex:       math.Round(uvi),
			DewPoint:      dewC,
		})
	}

	if hours > 0 && len(rows) > hours {
		rows = rows[len(rows)-hours:]
	}
	if len(rows) > 0 {
		rows[len(rows)-1].Time = NowLabel
	}
	return rows
}

// BuildCurrent derives the "now" summary from the latest valid daily values.
// When hourly records exist the most recent one supplies precipitation, UV,
// pressure and dew point.
func BuildCurrent(daily ParameterSet, hourly []HourlyRecord, sentinels Sentinels) CurrentConditions {
	latest := func(name string) *float64 {
		return daily.Series(name).Latest(sentinels)
	}

	tempC := sentinels.Or(latest(ParamTemperature), 20)
	rh := ClampHumidity(sentinels.Or(latest(ParamHumidity), 60))
	precip24 := NonNegative(sentinels.Or(latest(ParamPrecipitation), 0))
	highC := sentinels.Or(latest(ParamTemperatureMax), tempC)
	lowC := sentinels.Or(latest(ParamTemperatureMin), tempC)
	dewC := sentinels.Or(latest(ParamDewPoint), tempC-2)
	windMs := NonNegative(sentinels.Or(latest(ParamWindSpeed), 0))

	precip := Round(precip24, 2)
	uvi := NonNegative(sentinels.Or(latest(ParamUVIndex), 0))
	var inHg *float64
	if ps := latest(ParamPressure); ps != nil {
		inHg = ptr(KPaToInHg(*ps))
	}

	if n := len(hourly); n > 0 {
		last := hourly[n-1]
		precip = last.Precipitation
		uvi = last.UVIndex
		inHg = last.Pressure
		dewC = last.DewPoint
	}

	cond := Classify(tempC, rh, precip, Hourly)
	return CurrentConditions{
		Temperature:   tempC,
		Condition:     cond.Label,
		Description:   cond.Label,
		Precipitation: precip,
		PrecipLast24h: Round(precip24, 2),
		Humidity:      rh,
		Wind:          MsToMph(windMs),
		Pressure:      inHg,
		Visibility:    defaultVisibility,
		UVIndex:       uvi,
		DewPoint:      dewC,
		FeelsLike:     tempC,
		Icon:          cond.Icon,
		High:          highC,
		Low:           lowC,
	}
}

// BuildTrend returns the last `days` daily entries keyed by the T2M_MAX
// series, oldest first.
func BuildTrend(daily ParameterSet, days int, sentinels Sentinels) ([]DailyTrendEntry, error) {
	var (
		high     = daily.Series(ParamTemperatureMax)
		low      = daily.Series(ParamTemperatureMin)
		humidity = daily.Series(ParamHumidity)
		precip   = daily.Series(ParamPrecipitation)
		wind     = daily.Series(ParamWindSpeed)
	)

	dates := high.Keys()
	if days > 0 && len(dates) > days {
		dates = dates[len(dates)-days:]
	}

	out := make([]DailyTrendEntry, 0, len(dates))
	for _, key := range dates {
		day, err := time.Parse("20060102", key)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date key %q", ErrUpstreamData, key)
		}

		highC := sentinels.Or(high[key], 20)
		lowC := sentinels.Or(low[key], 10)
		rh := ClampHumidity(sentinels.Or(humidity[key], 60))
		mm := NonNegative(sentinels.Or(precip[key], 0))
		windMs := NonNegative(sentinels.Or(wind[key], 5))

		cond := Classify((highC+lowC)/2, rh, mm, Daily)
		out = append(out, DailyTrendEntry{
			Date:          day.Format("Mon, Jan 02"),
			High:          highC,
			Low:           lowC,
			Precipitation: Round(mm, 2),
			Condition:     cond.Label,
			Description:   cond.Label,
			Icon:          cond.Icon,
			Humidity:      rh,
			Wind:          MsToMph(windMs),
		})
	}
	return out, nil
}

// BuildHistorical returns one entry per day of the T2M series, oldest first.
func BuildHistorical(daily ParameterSet, sentinels Sentinels) ([]HistoricalEntry, error) {
	var (
		temp     = daily.Series(ParamTemperature)
		precip   = daily.Series(ParamPrecipitation)
		humidity = daily.Series(ParamHumidity)
	)

	out := make([]HistoricalEntry, 0, len(temp))
	for _, key := range temp.Keys() {
		day, err := time.Parse("20060102", key)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date key %q", ErrUpstreamData, key)
		}
		out = append(out, HistoricalEntry{
			Date:          day.Format("Jan 02"),
			AvgTemp:       sentinels.Or(temp[key], 20),
			Precipitation: Round(NonNegative(sentinels.Or(precip[key], 0)), 2),
			Humidity:      ClampHumidity(sentinels.Or(humidity[key], 60)),
		})
	}
	return out, nil
}

// hourLabel renders a YYYYMMDDHH key as "3 PM". Keys that do not parse fall
// back to their last two characters.
func hourLabel(key string) string {
	t, err := time.Parse("2006010215", key)
	if err != nil {
		if len(key) >= 2 {
			return key[len(key)-2:]
		}
		return key
	}
	return t.Format("3 PM")
}
