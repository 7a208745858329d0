package accesscontrol

// NodeKind identifies which identity-store node an authorization check
// targets.
type NodeKind string

const (
	NodeUsers  NodeKind = "users"  // the Users container
	NodeUser   NodeKind = "user"   // a single user
	NodeGroups NodeKind = "groups" // the Groups container
	NodeGroup  NodeKind = "group"  // a single group
)

// Node is the target of an authorization check. ID is empty for the
// container kinds.
type Node struct {
	Kind NodeKind
	ID   string
}

// UsersNode returns the Users container node.
func UsersNode() Node { return Node{Kind: NodeUsers} }

// UserNode returns the node for a single user.
func UserNode(id string) Node { return Node{Kind: NodeUser, ID: id} }

// GroupsNode returns the Groups container node.
func GroupsNode() Node { return Node{Kind: NodeGroups} }

// GroupNode returns the node for a single group.
func GroupNode(id string) Node { return Node{Kind: NodeGroup, ID: id} }
