package tracking

import (
	"fmt"
	"sort"
	"sync"
)

// Group is a named list of tracking parameters that can be toggled as a unit.
type Group struct {
	Name        string
	Description string
	Params      []string
}

var (
	mu     sync.RWMutex
	groups = make(map[string]Group)
)

// Register registers a rule group by name.
func Register(group Group) error {
	if group.Name == "" {
		return fmt.Errorf("group name required")
	}
	if len(group.Params) == 0 {
		return fmt.Errorf("group %s has no params", group.Name)
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := groups[group.Name]; exists {
		return fmt.Errorf("group %s already registered", group.Name)
	}
	params := make([]string, len(group.Params))
	copy(params, group.Params)
	group.Params = params
	groups[group.Name] = group
	return nil
}

// Get returns a registered group by name.
func Get(name string) (Group, bool) {
	mu.RLock()
	defer mu.RUnlock()
	group, ok := groups[name]
	return group, ok
}

// Names returns all registered group names.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	nameList := make([]string, 0, len(groups))
	for name := range groups {
		nameList = append(nameList, name)
	}
	sort.Strings(nameList)
	return nameList
}

// Default returns the set made of every registered group.
func Default() Set {
	mu.RLock()
	defer mu.RUnlock()
	var names []string
	for _, group := range groups {
		names = append(names, group.Params...)
	}
	return NewSet(names...)
}
