package media

// QueryKind distingue as duas formas de consulta suportadas.
type QueryKind int

const (
	QueryByConfiguration QueryKind = iota + 1
	QueryByDimensions
)

// Query é a consulta montada pelo QueryBuilder. O resolvedor não inspeciona seu conteúdo;
// apenas os buscadores de variantes leem os campos pelos acessores.
type Query struct {
	kind              QueryKind
	asset             *Asset
	configurationUUID string
	width             int
	height            int
}

// Kind informa o tipo da consulta.
func (q Query) Kind() QueryKind { return q.kind }

// Asset devolve o arquivo consultado.
func (q Query) Asset() *Asset { return q.asset }

// ConfigurationUUID devolve o UUID filtrado em consultas exatas.
func (q Query) ConfigurationUUID() string { return q.configurationUUID }

// Dimensions devolve largura e altura alvo em consultas por dimensão.
func (q Query) Dimensions() (int, int) { return q.width, q.height }

// Valid indica se a consulta foi montada por um builder.
func (q Query) Valid() bool {
	return q.asset != nil && q.kind != 0
}

// QueryBuilder inicia a montagem de uma consulta de variantes.
type QueryBuilder interface {
	ForAsset(asset *Asset) AssetQueryBuilder
}

// AssetQueryBuilder completa a consulta para um arquivo específico.
type AssetQueryBuilder interface {
	// ForConfiguration pede as variantes geradas pela configuração informada.
	ForConfiguration(configurationUUID string) Query
	// WithDimensions pede as variantes ordenadas pela proximidade às dimensões.
	WithDimensions(width, height int) Query
}

// BuildFunc monta uma consulta a partir do builder fornecido pelo buscador.
type BuildFunc func(QueryBuilder) Query

// NewQueryBuilder devolve o builder padrão.
func NewQueryBuilder() QueryBuilder {
	return queryBuilder{}
}

type queryBuilder struct{}

func (queryBuilder) ForAsset(asset *Asset) AssetQueryBuilder {
	return assetQueryBuilder{asset: asset}
}

type assetQueryBuilder struct {
	asset *Asset
}

func (b assetQueryBuilder) ForConfiguration(configurationUUID string) Query {
	return Query{kind: QueryByConfiguration, asset: b.asset, configurationUUID: configurationUUID}
}

func (b assetQueryBuilder) WithDimensions(width, height int) Query {
	return Query{kind: QueryByDimensions, asset: b.asset, width: width, height: height}
}

// Build aplica a função ao builder padrão e valida o resultado.
func Build(fn BuildFunc) (Query, error) {
	if fn == nil {
		return Query{}, ErrInvalidQuery
	}
	q := fn(NewQueryBuilder())
	if !q.Valid() {
		return Query{}, ErrInvalidQuery
	}
	return q, nil
}
