package panels

import (
	"math"

	"trexxdash/internal/artifacts"
	"trexxdash/pkg/contracts/domain"
)

// inactiveCluster is the segment of fans with no recent activity. It is
// left out of every segment view.
const inactiveCluster = 0

// BuildSegments returns the cluster share, average spend and fan scatter
// views. Both tables are required. Cluster 0 fans are left out of the
// scatter as well as the cluster charts, so the scatter holds fewer points
// than fan_purchase_probabilities has rows whenever that cluster is present.
func BuildSegments(clusters, fans *artifacts.Table, opts Options) (*domain.SegmentsPanel, error) {
	if err := requireAll(domain.PanelSegments,
		input{artifacts.ClusterAnalysis, clusters},
		input{artifacts.FanProbabilities, fans},
	); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if err := clusters.Require(colCluster, colRevenueShare, colTotalSpentMean); err != nil {
		return nil, err
	}
	if err := fans.Require(colFanID, colTotalSpent, colPurchaseProbability, colCluster, colFavoriteTeam); err != nil {
		return nil, err
	}

	clusterIDs, err := clusters.Floats(colCluster)
	if err != nil {
		return nil, err
	}
	shares, err := clusters.Floats(colRevenueShare)
	if err != nil {
		return nil, err
	}
	spendMean, err := clusters.Floats(colTotalSpentMean)
	if err != nil {
		return nil, err
	}

	active := activeClusters(clusterIDs)
	shownTotal := sumFinite(shares, active)

	panel := &domain.SegmentsPanel{
		RevenueShare: domain.ClusterShareChart{Chart: clusterShareChart, Slices: []domain.ClusterShare{}},
		AverageSpend: domain.ClusterSpendChart{Chart: clusterSpendChart, Bars: []domain.ClusterSpend{}},
	}
	for i, id := range clusterIDs {
		if !active[i] {
			continue
		}
		label := formatNumber(id)
		percent := math.NaN()
		if shownTotal != 0 && finite(shares[i]) {
			percent = shares[i] / shownTotal * 100
		}
		panel.RevenueShare.Slices = append(panel.RevenueShare.Slices, domain.ClusterShare{
			Cluster:      label,
			RevenueShare: domain.Float(shares[i]),
			Percent:      domain.Float(percent),
		})
		panel.AverageSpend.Bars = append(panel.AverageSpend.Bars, domain.ClusterSpend{
			Cluster:        label,
			TotalSpentMean: domain.Float(spendMean[i]),
		})
	}

	scatter, issues, err := fanScatter(fans, opts)
	if err != nil {
		return nil, err
	}
	panel.Fans = scatter
	panel.Issues = issues
	return panel, nil
}

func activeClusters(ids []float64) []bool {
	keep := make([]bool, len(ids))
	for i, id := range ids {
		keep[i] = id != inactiveCluster
	}
	return keep
}

func fanScatter(fans *artifacts.Table, opts Options) (domain.FanScatter, []domain.RowIssue, error) {
	scatter := domain.FanScatter{Chart: fanScatterChart, SizeMax: scatterSizeMax, Points: []domain.FanPoint{}}

	ids, err := fans.Strings(colFanID)
	if err != nil {
		return scatter, nil, err
	}
	teams, err := fans.Strings(colFavoriteTeam)
	if err != nil {
		return scatter, nil, err
	}
	spent, err := fans.Floats(colTotalSpent)
	if err != nil {
		return scatter, nil, err
	}
	probs, err := fans.Floats(colPurchaseProbability)
	if err != nil {
		return scatter, nil, err
	}
	clusterIDs, err := fans.Floats(colCluster)
	if err != nil {
		return scatter, nil, err
	}

	probs, checks := checkProbabilities(artifacts.FanProbabilities, colPurchaseProbability, probs, opts.RowPolicy)
	keep := activeClusters(clusterIDs)
	for i := range keep {
		keep[i] = keep[i] && checks.keep[i]
	}

	maxSpent := math.NaN()
	if i := argmaxFinite(spent, keep); i >= 0 {
		maxSpent = spent[i]
	}
	for i := range ids {
		if !keep[i] {
			continue
		}
		scatter.Points = append(scatter.Points, domain.FanPoint{
			FanID:               ids[i],
			FavoriteTeam:        teams[i],
			TotalSpent:          domain.Float(spent[i]),
			PurchaseProbability: domain.Float(probs[i]),
			Cluster:             formatNumber(clusterIDs[i]),
			Size:                domain.Float(markerSize(spent[i], maxSpent)),
		})
	}
	return scatter, checks.issues, nil
}

// markerSize scales diameters so that marker area grows with spend.
func markerSize(spent, maxSpent float64) float64 {
	if !finite(spent) || spent <= 0 || !finite(maxSpent) || maxSpent <= 0 {
		return 0
	}
	return scatterSizeMax * math.Sqrt(spent/maxSpent)
}
