// Package factory builds campaigns from the application configuration.
package factory

import (
	"fmt"

	"spmadrid/collections-reports/internal/campaign"
	"spmadrid/collections-reports/internal/classifier"
	"spmadrid/collections-reports/internal/config"
	"spmadrid/collections-reports/internal/logging"
)

// CampaignType names a report pipeline.
type CampaignType string

const (
	CuredList  CampaignType = "cured-list"
	BPIUpdates CampaignType = "bpi-updates"
	Monitoring CampaignType = "monitoring"
	Endorse    CampaignType = "endorse"
	Agency     CampaignType = "agency"
	RemarkFill CampaignType = "remark-fill"
	Clean      CampaignType = "clean"
)

// Types lists every campaign in command order.
func Types() []CampaignType {
	return []CampaignType{CuredList, BPIUpdates, Monitoring, Endorse, Agency, RemarkFill, Clean}
}

// Overrides are the per-run settings that come from command flags rather than config.
type Overrides struct {
	// RemarkColumn is the cured-list column holding collector remarks.
	RemarkColumn string
	// AccountMajor writes cured-list rows account by account.
	AccountMajor bool
	Clean        campaign.CleanOptions
}

// GetCampaign returns a new campaign of type t configured from cfg.
func GetCampaign(t CampaignType, cfg *config.Config, o Overrides, logger logging.Logger) (campaign.Campaign, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	switch t {
	case CuredList:
		order := classifier.OrderLabelMajor
		if o.AccountMajor {
			order = classifier.OrderAccountMajor
		}
		return campaign.NewCuredList(campaign.CuredListOptions{
			HouseAgent:     cfg.Campaigns.BPI.HouseAgent,
			MinColumns:     cfg.Campaigns.BPI.MinColumns,
			RemarkColumn:   o.RemarkColumn,
			ReasonDefaults: reasonDefaults(cfg.Campaigns.BPI.ReasonDefaults),
			Order:          order,
		}, logger), nil
	case BPIUpdates:
		return campaign.NewBPIUpdates(logger), nil
	case Monitoring:
		return campaign.NewMonitoring(campaign.MonitoringOptions{}, logger), nil
	case Endorse:
		return campaign.NewEndorse(cfg.Campaigns.ROB.Taggings, logger), nil
	case Agency:
		bdo := cfg.Campaigns.BDO
		return campaign.NewAgency(campaign.AgencyOptions{
			Agency:         bdo.Agency,
			Buckets:        buckets(bdo.Buckets),
			AllowList:      bdo.AllowList,
			RequireRoster:  bdo.RequireRoster,
			ReasonDefaults: reasonDefaults(bdo.ReasonDefaults),
		}, logger), nil
	case RemarkFill:
		return campaign.NewRemarkFill(logger), nil
	case Clean:
		return campaign.NewClean(o.Clean, logger), nil
	default:
		return nil, fmt.Errorf("unknown campaign type: %s", t)
	}
}

func buckets(in []config.BucketConfig) []classifier.Bucket {
	if len(in) == 0 {
		return nil
	}
	out := make([]classifier.Bucket, 0, len(in))
	for _, b := range in {
		out = append(out, classifier.Bucket{Label: b.Label, Prefixes: b.Prefixes})
	}
	return out
}

func reasonDefaults(m map[string]string) classifier.ReasonDefaults {
	if len(m) == 0 {
		return nil
	}
	return classifier.ReasonDefaults(m)
}
