package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-plantshelf/models"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

const timeLayout = "2006-01-02 15:04:05"

// PlantStore 植物表的持久化网关，只做参数化的单表 CRUD
type PlantStore struct {
	DB *sql.DB
}

// NewPlantStore 创建一个新的 PlantStore 实例
func NewPlantStore(db *sql.DB) *PlantStore {
	return &PlantStore{DB: db}
}

// Create 插入一条植物记录，返回带服务端时间戳的摘要
func (s *PlantStore) Create(p *models.Plant) (models.PlantSummary, error) {
	now := time.Now().Format(timeLayout)

	result, err := s.DB.Exec(`
		INSERT INTO plants (
			scientific_name, common_name, family, family_common_name, genus,
			image_url, author, bibliography, year, synonyms, slug,
			trefle_id, perenual_id, metadata, notes,
			nickname, location, acquired_date, status,
			added_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		p.ScientificName, nullStr(p.CommonName), nullStr(p.Family),
		nullStr(p.FamilyCommonName), nullStr(p.Genus),
		nullStr(p.ImageURL), nullStr(p.Author), nullStr(p.Bibliography),
		nullInt(p.Year), synonymsValue(p.Synonyms), nullStr(p.Slug),
		nullInt(p.TrefleID), nullInt(p.PerenualID), metadataValue(p.Metadata), nullStr(p.Notes),
		nullStr(p.Nickname), nullStr(p.Location), nullStr(p.AcquiredDate), nullStr(p.Status),
		now, now,
	)
	if err != nil {
		return models.PlantSummary{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.PlantSummary{}, err
	}

	return models.PlantSummary{
		ID:             int(id),
		ScientificName: p.ScientificName,
		CommonName:     p.CommonName,
		AddedAt:        now,
	}, nil
}

// Update 全量更新一条植物记录，记录不存在返回 ErrNotFound
func (s *PlantStore) Update(p *models.Plant) (models.PlantSummary, error) {
	// MySQL 对无变化的 UPDATE 返回 0 行，先单独确认记录存在
	var exists int
	err := s.DB.QueryRow("SELECT id FROM plants WHERE id = ?", p.ID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PlantSummary{}, ErrNotFound
		}
		return models.PlantSummary{}, err
	}

	now := time.Now().Format(timeLayout)

	_, err = s.DB.Exec(`
		UPDATE plants SET
			scientific_name = ?, common_name = ?, family = ?, family_common_name = ?,
			genus = ?, image_url = ?, author = ?, bibliography = ?, year = ?,
			synonyms = ?, slug = ?, trefle_id = ?, perenual_id = ?, metadata = ?,
			notes = ?, nickname = ?, location = ?, acquired_date = ?, status = ?,
			updated_at = ?
		WHERE id = ?
	`,
		p.ScientificName, nullStr(p.CommonName), nullStr(p.Family), nullStr(p.FamilyCommonName),
		nullStr(p.Genus), nullStr(p.ImageURL), nullStr(p.Author), nullStr(p.Bibliography), nullInt(p.Year),
		synonymsValue(p.Synonyms), nullStr(p.Slug), nullInt(p.TrefleID), nullInt(p.PerenualID), metadataValue(p.Metadata),
		nullStr(p.Notes), nullStr(p.Nickname), nullStr(p.Location), nullStr(p.AcquiredDate), nullStr(p.Status),
		now, p.ID,
	)
	if err != nil {
		return models.PlantSummary{}, err
	}

	return models.PlantSummary{
		ID:             p.ID,
		ScientificName: p.ScientificName,
		CommonName:     p.CommonName,
		UpdatedAt:      now,
	}, nil
}

// GetByID 查询单条植物记录
func (s *PlantStore) GetByID(id int) (*models.Plant, error) {
	row := s.DB.QueryRow(`
		SELECT id, scientific_name, common_name, family, family_common_name, genus,
			image_url, author, bibliography, year, synonyms, slug,
			trefle_id, perenual_id, metadata, notes,
			nickname, location, acquired_date, status, added_at, updated_at
		FROM plants WHERE id = ?
	`, id)

	var (
		p        models.Plant
		common   sql.NullString
		family   sql.NullString
		famCom   sql.NullString
		genus    sql.NullString
		image    sql.NullString
		author   sql.NullString
		biblio   sql.NullString
		year     sql.NullInt64
		synonyms sql.NullString
		slug     sql.NullString
		trefleID sql.NullInt64
		perenID  sql.NullInt64
		metadata sql.NullString
		notes    sql.NullString
		nickname sql.NullString
		location sql.NullString
		acquired sql.NullString
		status   sql.NullString
	)

	err := row.Scan(
		&p.ID, &p.ScientificName, &common, &family, &famCom, &genus,
		&image, &author, &biblio, &year, &synonyms, &slug,
		&trefleID, &perenID, &metadata, &notes,
		&nickname, &location, &acquired, &status, &p.AddedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p.CommonName = strPtr(common)
	p.Family = strPtr(family)
	p.FamilyCommonName = strPtr(famCom)
	p.Genus = strPtr(genus)
	p.ImageURL = strPtr(image)
	p.Author = strPtr(author)
	p.Bibliography = strPtr(biblio)
	p.Year = intPtr(year)
	p.Slug = strPtr(slug)
	p.TrefleID = intPtr(trefleID)
	p.PerenualID = intPtr(perenID)
	p.Notes = strPtr(notes)
	p.Nickname = strPtr(nickname)
	p.Location = strPtr(location)
	p.AcquiredDate = strPtr(acquired)
	p.Status = strPtr(status)
	p.Synonyms = decodeSynonyms(synonyms)
	p.Metadata = decodeMetadata(metadata)

	return &p, nil
}

// List 列出全部植物记录，按 added_at 倒序，不分页
func (s *PlantStore) List() ([]models.Plant, error) {
	rows, err := s.DB.Query(`
		SELECT id, scientific_name, common_name, family, family_common_name, genus,
			image_url, nickname, location, status, metadata, added_at
		FROM plants
		ORDER BY added_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plants := []models.Plant{}
	for rows.Next() {
		var (
			p        models.Plant
			common   sql.NullString
			family   sql.NullString
			famCom   sql.NullString
			genus    sql.NullString
			image    sql.NullString
			nickname sql.NullString
			location sql.NullString
			status   sql.NullString
			metadata sql.NullString
		)

		err := rows.Scan(
			&p.ID, &p.ScientificName, &common, &family, &famCom, &genus,
			&image, &nickname, &location, &status, &metadata, &p.AddedAt,
		)
		if err != nil {
			return nil, err
		}

		p.CommonName = strPtr(common)
		p.Family = strPtr(family)
		p.FamilyCommonName = strPtr(famCom)
		p.Genus = strPtr(genus)
		p.ImageURL = strPtr(image)
		p.Nickname = strPtr(nickname)
		p.Location = strPtr(location)
		p.Status = strPtr(status)
		p.Metadata = decodeMetadata(metadata)

		plants = append(plants, p)
	}

	return plants, rows.Err()
}

func nullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}

func synonymsValue(synonyms []string) sql.NullString {
	if len(synonyms) == 0 {
		return sql.NullString{}
	}
	encoded, err := json.Marshal(synonyms)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(encoded), Valid: true}
}

func decodeSynonyms(ns sql.NullString) []string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	var synonyms []string
	if err := json.Unmarshal([]byte(ns.String), &synonyms); err != nil {
		return nil
	}
	return synonyms
}

// metadata 列保持不变式：永远是一个 JSON 对象，缺省 {}
func metadataValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}

func decodeMetadata(ns sql.NullString) json.RawMessage {
	if !ns.Valid || ns.String == "" {
		return json.RawMessage("{}")
	}
	return json.RawMessage(ns.String)
}
