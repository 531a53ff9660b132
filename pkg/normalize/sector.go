package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	averr "alphavantage/pkg/error"
	"alphavantage/pkg/frame"
)

var rankPrefix = regexp.MustCompile(`^Rank [A-Z]: `)

// sectorTable 板块表现：每个排名区块下各板块的比率，保持响应中的顺序
type sectorTable struct {
	ranks   []string
	sectors []string
	values  map[string]map[string]float64 // rank -> sector -> ratio
}

// PercentToFloat 把 "3.45%" 形式的字符串转换为比率 0.0345
func PercentToFloat(v gjson.Result) (float64, error) {
	if v.Type == gjson.Number {
		return v.Float() / 100, nil
	}
	f, err := strconv.ParseFloat(strings.Trim(strings.TrimSpace(v.String()), "%"), 64)
	if err != nil {
		return 0, err
	}
	return f / 100, nil
}

// StripRank 去掉 "Rank A: " 前缀
func StripRank(label string) string {
	return rankPrefix.ReplaceAllString(label, "")
}

func parseSectors(data gjson.Result) (*sectorTable, error) {
	t := &sectorTable{values: make(map[string]map[string]float64)}
	seen := map[string]bool{}

	var err error
	data.ForEach(func(rank, section gjson.Result) bool {
		name := rank.String()
		row := make(map[string]float64)
		section.ForEach(func(sector, v gjson.Result) bool {
			var ratio float64
			if ratio, err = PercentToFloat(v); err != nil {
				err = averr.WrapError(averr.ErrShapingFailed,
					"sector value "+sector.String()+" in "+name+" is not a percentage", err)
				return false
			}
			row[sector.String()] = ratio
			if !seen[sector.String()] {
				seen[sector.String()] = true
				t.sectors = append(t.sectors, sector.String())
			}
			return true
		})
		t.ranks = append(t.ranks, name)
		t.values[name] = row
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// structured 结构化模式保留完整的区块名
func (t *sectorTable) structured() map[string]any {
	out := make(map[string]any, len(t.ranks))
	for _, rank := range t.ranks {
		row := make(map[string]any, len(t.values[rank]))
		for sector, v := range t.values[rank] {
			row[sector] = v
		}
		out[rank] = row
	}
	return out
}

// frame 行为板块，列为去掉排名前缀的区块名，缺失值为 nil
func (t *sectorTable) frame() (*frame.Frame, error) {
	columns := make([]string, len(t.ranks))
	for i, rank := range t.ranks {
		columns[i] = StripRank(rank)
	}

	f := frame.New(columns...)
	for _, sector := range t.sectors {
		values := make([]any, len(t.ranks))
		for i, rank := range t.ranks {
			if v, ok := t.values[rank][sector]; ok {
				values[i] = v
			}
		}
		if err := f.AddRow(sector, values); err != nil {
			return nil, err
		}
	}
	return f, nil
}
