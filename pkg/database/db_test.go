// Copyright 2025 LunaBeam Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase_Validate(t *testing.T) {
	tests := []struct {
		name    string
		conf    Database
		wantErr bool
	}{
		{name: "mysql complete", conf: Database{Driver: DriverMySQL, MySQL: MySQLConfig{Host: "db", User: "u", DBName: "lunabeam"}}},
		{name: "mysql missing host", conf: Database{Driver: DriverMySQL, MySQL: MySQLConfig{User: "u", DBName: "lunabeam"}}, wantErr: true},
		{name: "sqlite", conf: Database{Driver: DriverSQLite, SQLite: SQLiteConfig{Path: "file::memory:"}}},
		{name: "sqlite missing path", conf: Database{Driver: DriverSQLite}, wantErr: true},
		{name: "unknown driver", conf: Database{Driver: "oracle"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabase_SetDefaults(t *testing.T) {
	conf := Database{}
	conf.SetDefaults()

	assert.Equal(t, DriverMySQL, conf.Driver)
	assert.Equal(t, "3306", conf.MySQL.Port)
	assert.Equal(t, 50, conf.MaxOpenConns)
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn := buildMySQLDSN(MySQLConfig{Host: "db", Port: "3307", User: "luna", Password: "pw", DBName: "lunabeam"})
	assert.Equal(t, "luna:pw@tcp(db:3307)/lunabeam?charset=utf8mb4&parseTime=True&loc=UTC", dsn)
}

func TestNewDatabase_SQLite(t *testing.T) {
	db, err := NewDatabase(Database{
		Driver: DriverSQLite,
		OutPut: true,
		SQLite: SQLiteConfig{Path: "file:dbtest?mode=memory&cache=shared"},
	})
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
}
