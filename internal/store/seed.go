package store

import (
	"gorm.io/gorm/clause"

	"github.com/erbench/erbench/internal/store/model"
)

// The benchmark catalog. Codes are stable identifiers referenced by jobs;
// names are what the UI renders.
var seedDatasets = model.DatasetList{
	{Code: "d1_fodors_zagats", Name: "Fodors-Zagats (Restaurants)"},
	{Code: "d2_abt_buy", Name: "Abt-Buy (Products)"},
	{Code: "d3_amazon_google", Name: "Amazon-Google (Products)"},
	{Code: "d4_dblp_acm", Name: "DBLP-ACM (Citations)"},
	{Code: "d5_imdb_tmdb", Name: "IMDB-TMDB (Movies)"},
	{Code: "d6_imdb_tvdb", Name: "IMDB-TVDB (Movies)"},
	{Code: "d7_tmdb_tvdb", Name: "TMDB-TVDB (Movies)"},
	{Code: "d8_amazon_walmart", Name: "Amazon-Walmart (Electronics)"},
	{Code: "d9_dblp_scholar", Name: "DBLP-Scholar (Citations)"},
	{Code: "d10_imdb_dbpedia", Name: "IMDB-DBPedia (Movies)"},
	{Code: "d11_itunes_amazon", Name: "iTunes-Amazon (Music)"},
	{Code: "d12_beeradvo_ratebeer", Name: "BeerAdvo-RateBeer (Beer)"},
}

var seedAlgorithms = model.AlgorithmList{
	// splitters
	{Code: "splitter_random", Name: "Random Split", Scenarios: model.MakeJSONField([]string{"filtering"}), Params: model.MakeJSONField([]string{"recall"})},
	{Code: "splitter_deepblocker", Name: "DeepBlocker", Scenarios: model.MakeJSONField([]string{"filtering"}), Params: model.MakeJSONField([]string{"recall"})},
	{Code: "splitter_knnjoin", Name: "top kNN-Join", Scenarios: model.MakeJSONField([]string{"filtering"}), Params: model.MakeJSONField([]string{"recall"})},
	// matchers
	{Code: "deepmatcher", Name: "DeepMatcher", Scenarios: model.MakeJSONField([]string{"matching"}), Params: model.MakeJSONField([]string{"epochs"})},
	{Code: "ditto", Name: "DITTO", Scenarios: model.MakeJSONField([]string{"matching"}), Params: model.MakeJSONField([]string{"epochs"})},
	{Code: "emtransformer", Name: "EMTransformer", Scenarios: model.MakeJSONField([]string{"matching"}), Params: model.MakeJSONField([]string{"recall", "epochs"})},
	{Code: "gnem", Name: "GNEM", Scenarios: model.MakeJSONField([]string{"matching"}), Params: model.MakeJSONField([]string{"epochs"})},
	{Code: "hiermatcher", Name: "HierMatcher", Scenarios: model.MakeJSONField([]string{"matching"}), Params: model.MakeJSONField([]string{"epochs"})},
	{Code: "magellan", Name: "Magellan", Scenarios: model.MakeJSONField([]string{"matching"}), Params: model.MakeJSONField([]string{})},
	{Code: "zeroer", Name: "ZeroER", Scenarios: model.MakeJSONField([]string{"matching"}), Params: model.MakeJSONField([]string{})},
}

// Seed creates or refreshes the dataset and algorithm catalogs.
func (s *DataStore) Seed() error {
	for _, d := range seedDatasets {
		dataset := d
		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&dataset).Error; err != nil {
			return err
		}
	}

	for _, a := range seedAlgorithms {
		algorithm := a
		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "scenarios", "params"}),
		}).Create(&algorithm).Error; err != nil {
			return err
		}
	}

	return nil
}
