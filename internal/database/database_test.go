package database

import (
	"testing"

	"kodbank/internal/models"

	"github.com/stretchr/testify/suite"
)

type DatabaseSuite struct {
	suite.Suite
	db *DB
}

func (s *DatabaseSuite) SetupTest() {
	s.db = SetupTestDB(s.T())
}

func (s *DatabaseSuite) TearDownTest() {
	CleanupTestDB(s.T(), s.db)
}

func TestDatabaseSuite(t *testing.T) {
	suite.Run(t, new(DatabaseSuite))
}

func (s *DatabaseSuite) TestSeedAdminUser_CreatesAdmin() {
	user, created, err := s.db.SeedAdminUser("Bank Admin", "Admin@KodnestBank.com", "hash")

	s.Require().NoError(err)
	s.True(created)
	s.Equal(models.RoleAdmin, user.Role)
	s.Equal("admin@kodnestbank.com", user.Email)
	s.Equal("hash", user.PasswordHash)
}

func (s *DatabaseSuite) TestSeedAdminUser_Idempotent() {
	first, created, err := s.db.SeedAdminUser("Bank Admin", "admin@kodnestbank.com", "hash")
	s.Require().NoError(err)
	s.True(created)

	second, created, err := s.db.SeedAdminUser("Other Name", "ADMIN@kodnestbank.com", "other")
	s.Require().NoError(err)
	s.False(created)
	s.Equal(first.ID, second.ID)
	s.Equal("hash", second.PasswordHash)

	var count int64
	s.Require().NoError(s.db.Model(&models.User{}).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *DatabaseSuite) TestSeedAdminUser_ExistingCustomerKeepsRole() {
	customer := CreateTestUser(s.T(), s.db, "admin@kodnestbank.com")

	user, created, err := s.db.SeedAdminUser("Bank Admin", "admin@kodnestbank.com", "hash")

	s.Require().NoError(err)
	s.False(created)
	s.Equal(customer.ID, user.ID)
	s.Equal(models.RoleCustomer, user.Role)
}

func (s *DatabaseSuite) TestCreateIndexes() {
	s.NoError(s.db.CreateIndexes())
}

func (s *DatabaseSuite) TestHealthCheck() {
	s.NoError(s.db.HealthCheck())
}
