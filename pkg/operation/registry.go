package operation

import (
	"fmt"
	"sort"
	"sync"

	averr "alphavantage/pkg/error"
)

// Registry 操作注册表，按 ID 索引 Descriptor
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]*Descriptor)}
}

// Register 注册一个操作，ID 重复或缺少 function 时返回错误
func (r *Registry) Register(d Descriptor) error {
	if d.ID == "" || d.Function == "" {
		return fmt.Errorf("descriptor must have an id and a function, got %q/%q", d.ID, d.Function)
	}
	if d.Formatting == "" {
		d.Formatting = FormattingDefault
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[d.ID]; exists {
		return fmt.Errorf("operation %s already registered", d.ID)
	}
	// 拷贝切片，保证注册后不可变
	d.Args = append([]ArgSpec(nil), d.Args...)
	d.DataKeys = append([]string(nil), d.DataKeys...)
	r.descriptors[d.ID] = &d
	return nil
}

// MustRegister 注册失败时 panic，仅用于包初始化
func (r *Registry) MustRegister(ds ...Descriptor) {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
}

// Lookup 按 ID 查找操作
func (r *Registry) Lookup(id string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.descriptors[id]
	if !ok {
		return nil, averr.Errorf(averr.ErrOperationNotFound, "operation %s is not registered", id)
	}
	return d, nil
}

// IDs 返回排序后的全部操作 ID
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ByFamily 返回某个操作族的全部操作
func (r *Registry) ByFamily(f Family) []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Descriptor
	for _, d := range r.descriptors {
		if d.Family == f {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len 注册的操作数
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}

// Default 内置的全部 Alpha Vantage 操作
var Default = NewRegistry()

func init() {
	Default.MustRegister(timeSeriesOperations()...)
	Default.MustRegister(indicatorOperations()...)
	Default.MustRegister(foreignExchangeOperations()...)
	Default.MustRegister(cryptoOperations()...)
	Default.MustRegister(fundamentalOperations()...)
	Default.MustRegister(sectorOperations()...)
	Default.MustRegister(intelligenceOperations()...)
	Default.MustRegister(globalQuoteOperations()...)
}
