package parser

import "strings"

type NodeKind int

const (
	KindError NodeKind = iota

	KindCompilationUnit
	KindPackageDecl
	KindImportDecl

	// KindTypeDecl carries the declaration keyword in its token: class,
	// interface, enum, record or @interface.
	KindTypeDecl
	KindExtendsClause
	KindImplementsClause
	KindPermitsClause
	KindRecordComponents
	KindClassBody
	KindEnumConstant

	KindFieldDecl
	KindMethodDecl
	KindConstructorDecl
	KindInitializer
	KindParameters
	KindParameter
	KindVarargs
	KindThrowsList
	KindBody

	KindModifiers
	KindModifier
	KindAnnotation
	KindAnnotationElement
	KindTypeParameters
	KindTypeParameter
	KindType
	KindTypeArguments
	KindWildcard
	KindArrayDims

	// Constructor body statements. Only the shapes needed to find
	// unconditional calls on this are modelled; everything else is opaque.
	KindCallChain
	KindCall
	KindArgument
	KindThis
	KindConstructorCall
	KindOpaqueStmt

	KindIdentifier
	KindQualifiedName
	KindLiteral
	KindArrayValue
	KindOpaqueExpr
)

var nodeKindNames = map[NodeKind]string{
	KindError:             "Error",
	KindCompilationUnit:   "CompilationUnit",
	KindPackageDecl:       "PackageDecl",
	KindImportDecl:        "ImportDecl",
	KindTypeDecl:          "TypeDecl",
	KindExtendsClause:     "ExtendsClause",
	KindImplementsClause:  "ImplementsClause",
	KindPermitsClause:     "PermitsClause",
	KindRecordComponents:  "RecordComponents",
	KindClassBody:         "ClassBody",
	KindEnumConstant:      "EnumConstant",
	KindFieldDecl:         "FieldDecl",
	KindMethodDecl:        "MethodDecl",
	KindConstructorDecl:   "ConstructorDecl",
	KindInitializer:       "Initializer",
	KindParameters:        "Parameters",
	KindParameter:         "Parameter",
	KindVarargs:           "Varargs",
	KindThrowsList:        "ThrowsList",
	KindBody:              "Body",
	KindModifiers:         "Modifiers",
	KindModifier:          "Modifier",
	KindAnnotation:        "Annotation",
	KindAnnotationElement: "AnnotationElement",
	KindTypeParameters:    "TypeParameters",
	KindTypeParameter:     "TypeParameter",
	KindType:              "Type",
	KindTypeArguments:     "TypeArguments",
	KindWildcard:          "Wildcard",
	KindArrayDims:         "ArrayDims",
	KindCallChain:         "CallChain",
	KindCall:              "Call",
	KindArgument:          "Argument",
	KindThis:              "This",
	KindConstructorCall:   "ConstructorCall",
	KindOpaqueStmt:        "OpaqueStmt",
	KindIdentifier:        "Identifier",
	KindQualifiedName:     "QualifiedName",
	KindLiteral:           "Literal",
	KindArrayValue:        "ArrayValue",
	KindOpaqueExpr:        "OpaqueExpr",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Error struct {
	Message string
	Pos     Position
}

func (e Error) Error() string {
	return e.Pos.String() + ": " + e.Message
}

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) HasChild(kind NodeKind) bool {
	return n.FirstChildOfKind(kind) != nil
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if n.Token != nil {
		sb.WriteString(" ")
		sb.WriteString(n.Token.Literal)
	}
	sb.WriteString("\n")
	for _, child := range n.Children {
		child.writeIndent(sb, indent+1)
	}
}
