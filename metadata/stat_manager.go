package metadata

import (
	"sync"

	"github.com/corvidb/corvidb/record"
	"github.com/corvidb/corvidb/sql"
	"github.com/corvidb/corvidb/tx"
)

// refreshThreshold is the number of StatInfo lookups after which every
// table's statistics are recomputed from scratch, bounding how stale the
// cache can drift under a long-running session.
const refreshThreshold = 100

// StatInfo summarizes one table's size and per-field cardinality, used by
// the planner's cost-estimation rules (spec §4.8).
type StatInfo struct {
	NumBlocks  int
	NumRecords int
	distinct   map[string]int
}

// DistinctValues returns the number of distinct values observed for
// fieldname, tracked exactly rather than approximated.
func (si StatInfo) DistinctValues(fieldname string) int {
	if n, ok := si.distinct[fieldname]; ok {
		return n
	}
	return 1
}

// StatManager maintains a lazily populated, periodically refreshed cache
// of StatInfo for every table that has been queried. Unlike an
// approximation such as "1 + NumRecords/3", it tracks the exact set of
// values seen per field so DistinctValues is precise as of the last
// refresh.
type StatManager struct {
	tm *TableManager

	mu         sync.Mutex
	numCalls   int
	tableStats map[string]StatInfo
}

// NewStatManager builds an empty cache and performs one initial refresh
// across every table named in tblcat.
func NewStatManager(tm *TableManager, t tx.Transaction) (*StatManager, error) {
	sm := &StatManager{tm: tm, tableStats: map[string]StatInfo{}}
	if err := sm.refreshStatistics(t); err != nil {
		return nil, err
	}
	return sm, nil
}

// StatInfo returns tblname's cached statistics, computing them on first
// use and recomputing every table's statistics once refreshThreshold
// lookups have accumulated.
func (sm *StatManager) StatInfo(tblname string, layout record.Layout, t tx.Transaction) (StatInfo, error) {
	sm.mu.Lock()
	sm.numCalls++
	needsRefresh := sm.numCalls > refreshThreshold
	sm.mu.Unlock()

	if needsRefresh {
		if err := sm.refreshStatistics(t); err != nil {
			return StatInfo{}, err
		}
	}

	sm.mu.Lock()
	si, ok := sm.tableStats[tblname]
	sm.mu.Unlock()
	if ok {
		return si, nil
	}

	si, err := calcTableStats(tblname, layout, t)
	if err != nil {
		return StatInfo{}, err
	}
	sm.mu.Lock()
	sm.tableStats[tblname] = si
	sm.mu.Unlock()
	return si, nil
}

func (sm *StatManager) refreshStatistics(t tx.Transaction) error {
	stats := map[string]StatInfo{}

	tblnames, err := sm.allTableNames(t)
	if err != nil {
		return err
	}
	for _, tblname := range tblnames {
		layout, err := sm.tm.Layout(tblname, t)
		if err != nil {
			return err
		}
		si, err := calcTableStats(tblname, layout, t)
		if err != nil {
			return err
		}
		stats[tblname] = si
	}

	sm.mu.Lock()
	sm.tableStats = stats
	sm.numCalls = 0
	sm.mu.Unlock()
	return nil
}

func (sm *StatManager) allTableNames(t tx.Transaction) ([]string, error) {
	ts, err := record.NewTableScan(t, tblCatTable, sm.tm.tblCatLayout)
	if err != nil {
		return nil, err
	}
	defer ts.Close()

	var names []string
	for {
		ok, err := ts.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return names, nil
		}
		name, err := ts.String(fieldTblName)
		if err != nil {
			return nil, err
		}
		if name == tblCatTable || name == fldCatTable {
			continue
		}
		names = append(names, name)
	}
}

func calcTableStats(tblname string, layout record.Layout, t tx.Transaction) (StatInfo, error) {
	ts, err := record.NewTableScan(t, tblname, layout)
	if err != nil {
		return StatInfo{}, err
	}
	defer ts.Close()

	seen := map[string]map[sql.Constant]struct{}{}
	for _, f := range layout.Schema().Fields() {
		seen[f] = map[sql.Constant]struct{}{}
	}

	numRecords := 0
	lastBlock := -1
	for {
		ok, err := ts.Next()
		if err != nil {
			return StatInfo{}, err
		}
		if !ok {
			break
		}
		numRecords++
		rid := ts.GetRID()
		if rid.BlockNum > lastBlock {
			lastBlock = rid.BlockNum
		}
		for _, f := range layout.Schema().Fields() {
			v, err := ts.GetVal(f)
			if err != nil {
				return StatInfo{}, err
			}
			seen[f][v] = struct{}{}
		}
	}

	distinct := make(map[string]int, len(seen))
	for f, vals := range seen {
		distinct[f] = len(vals)
	}

	return StatInfo{
		NumBlocks:  lastBlock + 1,
		NumRecords: numRecords,
		distinct:   distinct,
	}, nil
}
