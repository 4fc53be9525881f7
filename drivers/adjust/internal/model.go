package driver

import (
	"github.com/datazip-inc/tap-adjust/types"
)

// reportDimensions are the grouping fields the report service accepts. All of
// them come back as strings.
var reportDimensions = []string{
	"hour",
	"day",
	"week",
	"month",
	"year",
	"quarter",
	"os_name",
	"device_type",
	"app",
	"app_token",
	"store_id",
	"store_type",
	"currency",
	"currency_code",
	"network",
	"campaign",
	"campaign_network",
	"campaign_id_network",
	"adgroup",
	"adgroup_network",
	"adgroup_id_network",
	"source_network",
	"source_id_network",
	"creative",
	"creative_network",
	"creative_id_network",
	"country",
	"country_code",
	"region",
	"partner_name",
	"partner_id",
	"partner",
	"channel",
	"platform",
}

// reportMetrics maps base report metrics to their value types. The API
// returns every value as a string; reshape coerces them back.
var reportMetrics = map[string]types.DataType{
	"installs":                             types.INT64,
	"network_installs":                     types.INT64,
	"clicks":                               types.INT64,
	"network_clicks":                       types.INT64,
	"impressions":                          types.INT64,
	"network_impressions":                  types.INT64,
	"sessions":                             types.INT64,
	"reattributions":                       types.INT64,
	"limit_ad_tracking_installs":           types.INT64,
	"limit_ad_tracking_reattributions":     types.INT64,
	"revenue_events":                       types.INT64,
	"gdpr_forgets":                         types.INT64,
	"uninstalls":                           types.INT64,
	"reinstalls":                           types.INT64,
	"installs_per_mile":                    types.FLOAT64,
	"limit_ad_tracking_install_rate":       types.FLOAT64,
	"limit_ad_tracking_reattribution_rate": types.FLOAT64,
	"ctr":                                  types.FLOAT64,
	"click_conversion_rate":                types.FLOAT64,
	"impression_conversion_rate":           types.FLOAT64,
	"cost":                                 types.FLOAT64,
	"network_cost":                         types.FLOAT64,
	"ad_revenue":                           types.FLOAT64,
	"revenue":                              types.FLOAT64,
	"all_revenue":                          types.FLOAT64,
	"ecpi":                                 types.FLOAT64,
	"ecpc":                                 types.FLOAT64,
	"ecpm":                                 types.FLOAT64,
	"roas":                                 types.FLOAT64,
	"daus":                                 types.FLOAT64,
	"waus":                                 types.FLOAT64,
	"maus":                                 types.FLOAT64,
}

var reportDimensionSet = types.NewSet(reportDimensions...)
