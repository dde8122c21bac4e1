package dataset

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xndrleib/Market-Simulation/pkg/errors"
)

// Output file names inside the dataset directory.
const (
	AgentLevelFile  = "agent_level.csv"
	WindowLevelFile = "window_level.csv"
	ManifestFile    = "manifest.json"
)

type manifest struct {
	DatasetID   string    `json:"datasetId"`
	BaseSeed    int64     `json:"baseSeed"`
	WindowSize  int       `json:"windowSize"`
	AgentRows   int       `json:"agentRows"`
	WindowRows  int       `json:"windowRows"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// WriteCSV writes the dataset as two CSV tables plus a manifest under dir,
// creating the directory if needed.
func (d *Dataset) WriteCSV(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return writeError(err)
	}

	if err := d.writeAgentLevel(filepath.Join(dir, AgentLevelFile)); err != nil {
		return err
	}
	if err := d.writeWindowLevel(filepath.Join(dir, WindowLevelFile)); err != nil {
		return err
	}

	m := manifest{
		DatasetID:   d.ID,
		BaseSeed:    d.BaseSeed,
		WindowSize:  d.WindowSize,
		AgentRows:   len(d.AgentRows),
		WindowRows:  len(d.WindowRows),
		GeneratedAt: time.Now().UTC(),
	}
	buf, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return writeError(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), buf, 0o644); err != nil {
		return writeError(err)
	}
	return nil
}

func (d *Dataset) writeAgentLevel(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return writeError(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"run_id", "agent_id", "type",
		"label_is_illegal", "label_illegal_type", "group_id",
		"cash_final", "position_final", "equity_final",
		"n_trades", "total_volume", "net_volume", "avg_trade_size",
		"buy_volume", "sell_volume",
		"pre_event_volume", "post_event_volume", "aligned_pre_event_volume",
	}
	if err := w.Write(header); err != nil {
		return writeError(err)
	}

	for _, r := range d.AgentRows {
		record := []string{
			strconv.Itoa(r.RunID),
			strconv.Itoa(r.AgentID),
			r.Type,
			strconv.FormatBool(r.IsIllegal),
			r.IllegalType,
			strconv.Itoa(r.GroupID),
			strconv.FormatInt(r.CashFinal, 10),
			strconv.FormatInt(r.PositionFinal, 10),
			strconv.FormatInt(r.EquityFinal, 10),
			strconv.Itoa(r.NumTrades),
			strconv.FormatInt(r.TotalVolume, 10),
			strconv.FormatInt(r.NetVolume, 10),
			strconv.FormatFloat(r.AvgTradeSize, 'g', -1, 64),
			strconv.FormatInt(r.BuyVolume, 10),
			strconv.FormatInt(r.SellVolume, 10),
			strconv.FormatInt(r.PreEventVolume, 10),
			strconv.FormatInt(r.PostEventVolume, 10),
			strconv.FormatInt(r.AlignedPreEventVolume, 10),
		}
		if err := w.Write(record); err != nil {
			return writeError(err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return writeError(err)
	}
	return nil
}

func (d *Dataset) writeWindowLevel(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return writeError(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"run_id", "window_index", "start_step", "end_step",
		"n_trades", "total_volume", "buy_volume", "sell_volume",
		"n_active_agents", "realized_volatility",
		"has_illegal_activity", "event_distance",
	}
	if err := w.Write(header); err != nil {
		return writeError(err)
	}

	for _, r := range d.WindowRows {
		record := []string{
			strconv.Itoa(r.RunID),
			strconv.Itoa(r.WindowIndex),
			strconv.Itoa(r.StartStep),
			strconv.Itoa(r.EndStep),
			strconv.Itoa(r.NumTrades),
			strconv.FormatInt(r.TotalVolume, 10),
			strconv.FormatInt(r.BuyVolume, 10),
			strconv.FormatInt(r.SellVolume, 10),
			strconv.Itoa(r.NumActiveAgents),
			strconv.FormatFloat(r.RealizedVolatility, 'g', -1, 64),
			strconv.FormatBool(r.HasIllegal),
			strconv.FormatFloat(r.EventDistance, 'g', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return writeError(err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return writeError(err)
	}
	return nil
}

func writeError(err error) error {
	return errors.NewTracer(string(errors.DatasetWriteError)).Wrap(err)
}
