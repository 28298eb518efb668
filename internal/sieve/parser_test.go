package sieve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = `-- MySQL dump 10.13  Distrib 8.0.30, for Linux (x86_64)
--
-- Host: localhost    Database: shop
-- ------------------------------------------------------
-- Server version	8.0.30

/*!40101 SET @OLD_CHARACTER_SET_CLIENT=@@CHARACTER_SET_CLIENT */;
/*!40101 SET NAMES utf8mb4 */;

--
-- Current Database: ` + "`shop`" + `
--

CREATE DATABASE /*!32312 IF NOT EXISTS*/ ` + "`shop`" + `;

--
-- Table structure for table ` + "`orders`" + `
--

DROP TABLE IF EXISTS ` + "`orders`" + `;
CREATE TABLE ` + "`orders`" + ` (
  ` + "`id`" + ` int NOT NULL,
  PRIMARY KEY (` + "`id`" + `)
) ENGINE=InnoDB;

--
-- Dumping data for table ` + "`orders`" + `
--

LOCK TABLES ` + "`orders`" + ` WRITE;
/*!40000 ALTER TABLE ` + "`orders`" + ` DISABLE KEYS */;
INSERT INTO ` + "`orders`" + ` VALUES (1);
/*!40000 ALTER TABLE ` + "`orders`" + ` ENABLE KEYS */;
UNLOCK TABLES;

/*!40103 SET TIME_ZONE=@OLD_TIME_ZONE */;

-- Dump completed
`

func TestParserClassifiesSections(t *testing.T) {
	p := NewParser(strings.NewReader(sampleDump))

	var names []string
	for {
		s, err := p.Next()
		if err != nil {
			break
		}
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "header")
	assert.Contains(t, names, "createdatabase")
	assert.Contains(t, names, "tablestructure")
	assert.Contains(t, names, "tabledata")
	assert.Contains(t, names, "footer")
}

func TestParserExtractsTableIdentifiers(t *testing.T) {
	p := NewParser(strings.NewReader(sampleDump))
	var tableSection *Section
	for {
		s, err := p.Next()
		if err != nil {
			break
		}
		if s.Name == "tablestructure" {
			tableSection = s
			break
		}
	}
	require.NotNil(t, tableSection)
	assert.Equal(t, "orders", tableSection.Table)
	assert.Equal(t, "shop", tableSection.Database)
}

func TestExtractIdentifier(t *testing.T) {
	assert.Equal(t, "orders", extractIdentifier("-- Table structure for table `orders`"))
	assert.Equal(t, "shop", extractIdentifier("-- Current Database: `shop`"))
}
