package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"neuroflow/internal/config"
	"neuroflow/internal/model"
)

var migrateDBCommand = &cobra.Command{
	Use:   "migratedb",
	Short: "Create or update the database schema",
	Run: func(cmd *cobra.Command, args []string) {
		conf, err := config.InitConfig(configFile)
		if err != nil {
			logrus.Fatal("initConfig error, ", err.Error())
		}

		db, err := model.InitDB(model.DBConfig(conf.DB))
		if err != nil {
			logrus.Fatal("failed to init database, ", err)
		}
		if err := model.AutoMigrate(db); err != nil {
			logrus.Fatal("failed to migrate database, ", err)
		}
		logrus.Info("database migrated")
	},
}
