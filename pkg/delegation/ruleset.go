package delegation

import (
	"fmt"
	"os"
	"sync"

	"github.com/beevik/etree"
	"github.com/jinzhu/copier"
)

const (
	rootTag    = "localmanager"
	targetTag  = "target"
	defaultTag = "default"
	itemTag    = "item"
)

// RuleSet is the validated table of local-manager rules, keyed by admin
// group id. It is loaded wholesale from an XML resource and kept in memory;
// Load must be called again to pick up external edits. Rule order follows
// the document and is preserved on Save.
type RuleSet struct {
	path string

	mu    sync.RWMutex
	order []string
	rules map[string]Rule
}

// NewRuleSet creates an empty rule set bound to the given resource path.
// An empty path disables persistence; the set stays empty until rules are
// put programmatically.
func NewRuleSet(path string) *RuleSet {
	return &RuleSet{
		path:  path,
		rules: make(map[string]Rule),
	}
}

// Load parses the configuration resource and replaces the current table.
// A missing resource yields an empty rule set, not an error: delegation is
// simply disabled. A rule whose default set is not a subset of its target
// set fails the whole load with InvalidConfigError; the previous table
// stays installed.
func (s *RuleSet) Load() error {
	order, rules, err := s.parse()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = order
	s.rules = rules
	return nil
}

func (s *RuleSet) parse() ([]string, map[string]Rule, error) {
	rules := make(map[string]Rule)
	if s.path == "" {
		return nil, rules, nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, rules, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(s.path); err != nil {
		return nil, nil, fmt.Errorf("failed to read delegation config %s: %w", s.path, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, rules, nil
	}

	var order []string
	for _, ruleElem := range root.ChildElements() {
		rule := Rule{AdminGroupID: ruleElem.Tag}
		for _, listElem := range ruleElem.ChildElements() {
			var items []string
			for _, itemElem := range listElem.SelectElements(itemTag) {
				items = append(items, itemElem.Text())
			}
			switch listElem.Tag {
			case targetTag:
				rule.Target = items
			case defaultTag:
				rule.Default = items
			}
		}
		if err := rule.validate(); err != nil {
			return nil, nil, err
		}
		order = append(order, rule.AdminGroupID)
		rules[rule.AdminGroupID] = rule
	}
	return order, rules, nil
}

// Save serializes the current table back to the resource. Rules and their
// target/default entries are written in order, so an unchanged table
// round-trips to the same document structure.
func (s *RuleSet) Save() error {
	if s.path == "" {
		return fmt.Errorf("rule set has no resource path")
	}

	s.mu.RLock()
	doc := etree.NewDocument()
	root := doc.CreateElement(rootTag)
	for _, gid := range s.order {
		rule := s.rules[gid]
		ruleElem := root.CreateElement(gid)
		for _, list := range []struct {
			tag   string
			items []string
		}{
			{targetTag, rule.Target},
			{defaultTag, rule.Default},
		} {
			listElem := ruleElem.CreateElement(list.tag)
			for _, item := range list.items {
				listElem.CreateElement(itemTag).SetText(item)
			}
		}
	}
	s.mu.RUnlock()

	doc.Indent(2)
	if err := doc.WriteToFile(s.path); err != nil {
		return fmt.Errorf("failed to write delegation config %s: %w", s.path, err)
	}
	return nil
}

// RuleFor returns a copy of the rule for the given admin group id. A
// missing rule is a normal outcome meaning the group is not a delegation
// admin group.
func (s *RuleSet) RuleFor(adminGroupID string) (Rule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rule, ok := s.rules[adminGroupID]
	if !ok {
		return Rule{}, false
	}
	return copyRule(rule), true
}

// Rules returns copies of all rules in document order.
func (s *RuleSet) Rules() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rules := make([]Rule, 0, len(s.order))
	for _, gid := range s.order {
		rules = append(rules, copyRule(s.rules[gid]))
	}
	return rules
}

// AdminGroupIDs returns the configured admin group ids in document order.
func (s *RuleSet) AdminGroupIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// PutRule adds or replaces a rule, validating it first. Used by
// administrative tooling; call Save to persist.
func (s *RuleSet) PutRule(rule Rule) error {
	if rule.AdminGroupID == "" {
		return fmt.Errorf("rule has no admin group id")
	}
	if err := rule.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rules[rule.AdminGroupID]; !exists {
		s.order = append(s.order, rule.AdminGroupID)
	}
	s.rules[rule.AdminGroupID] = copyRule(rule)
	return nil
}

// DeleteRule removes a rule. Removing an absent rule is a no-op.
func (s *RuleSet) DeleteRule(adminGroupID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rules[adminGroupID]; !exists {
		return
	}
	delete(s.rules, adminGroupID)
	for i, gid := range s.order {
		if gid == adminGroupID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func copyRule(rule Rule) Rule {
	var out Rule
	// deep copy keeps callers from mutating the installed table through
	// returned slices
	if err := copier.CopyWithOption(&out, &rule, copier.Option{DeepCopy: true}); err != nil {
		// Rule only holds strings and string slices; copier cannot fail here
		return Rule{
			AdminGroupID: rule.AdminGroupID,
			Target:       append([]string(nil), rule.Target...),
			Default:      append([]string(nil), rule.Default...),
		}
	}
	return out
}
